package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/s3"
	"innkeep/internal/domains/document/model"
	"innkeep/internal/domains/document/model/dto"
	sharedBase64 "innkeep/shared/base64"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
)

const base64Marker = ";base64,"

// Document stores guest id-proof images. Uploads return a labelled URL that
// the check-in form attaches to a guest record.
type Document interface {
	UploadIDProof(ctx context.Context, req dto.UploadIDProofRequest) (dto.UploadIDProofResponse, error)
	UploadIDProofBase64(ctx context.Context, req dto.UploadIDProofBase64Request) (dto.UploadIDProofResponse, error)
	DeleteIDProofs(ctx context.Context, req dto.DeleteIDProofRequest) error
}

type serviceImpl struct {
	cfg  *config.Config
	otel otel.Otel
	s3   s3.S3
}

func New(cfg *config.Config, otel otel.Otel, s3 s3.S3) Document {
	return &serviceImpl{
		cfg:  cfg,
		otel: otel,
		s3:   s3,
	}
}

func (s *serviceImpl) UploadIDProof(ctx context.Context, req dto.UploadIDProofRequest) (res dto.UploadIDProofResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadIDProof")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucketName := s.cfg.External.S3.BucketName

	url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, req.Image.Filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload id proof to S3")

		return res, fmt.Errorf("failed to upload id proof to S3: %w", err)
	}

	res.FromUpload(req.Label, url, req.Image.Filename)

	return res, nil
}

func (s *serviceImpl) UploadIDProofBase64(ctx context.Context, req dto.UploadIDProofBase64Request) (res dto.UploadIDProofResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadIDProofBase64")
	defer scope.End()
	defer scope.TraceIfError(err)

	contentType := sharedBase64.GetContentType(req.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return res, failure.Validation("data must be an image data URI") // nolint:wrapcheck
	}

	marker := strings.Index(req.Data, base64Marker)
	if marker == -1 {
		return res, failure.Validation("data must be a base64 data URI") // nolint:wrapcheck
	}

	fileData, err := base64.StdEncoding.DecodeString(req.Data[marker+len(base64Marker):])
	if err != nil {
		return res, failure.Validation("data is not valid base64") // nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName

	url, err := s.s3.UploadFileBytes(ctx, bucketName, model.EntityName, req.FileName, contentType, fileData)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload id proof to S3")

		return res, fmt.Errorf("failed to upload id proof to S3: %w", err)
	}

	res.FromUpload(req.Label, url, req.FileName)

	return res, nil
}

func (s *serviceImpl) DeleteIDProofs(ctx context.Context, req dto.DeleteIDProofRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteIDProofs")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucketName := s.cfg.External.S3.BucketName

	var failed []string

	for _, url := range req.URLs {
		objectName := s.s3.GetObjectNameFromURL(bucketName, url)
		if objectName == constant.Empty {
			log.Warn().Str("url", url).Msg("failed to extract object name from URL")

			continue
		}

		if err := s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName); err != nil {
			log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete id proof from S3")

			failed = append(failed, objectName)
		}
	}

	if len(failed) > 0 {
		return failure.InternalError(fmt.Errorf("failed to delete id proofs: %s", strings.Join(failed, ", "))) // nolint:wrapcheck
	}

	return nil
}
