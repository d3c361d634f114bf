package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	s3Mocks "innkeep/infras/s3/mocks"
	"innkeep/internal/domains/document/model/dto"
	"innkeep/internal/domains/document/service"
	"innkeep/shared/failure"
)

func newService(t *testing.T) (service.Document, *s3Mocks.MockS3) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.External.S3.BucketName = "innkeep-documents"

	svc := service.New(cfg, mocks.NewOtel(), mockS3)

	return svc, mockS3
}

func pngDataURI() string {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))

	return "data:image/png;base64," + payload
}

func TestDocumentService_UploadIDProofBase64(t *testing.T) {
	t.Run("uploads a decoded image", func(t *testing.T) {
		svc, mockS3 := newService(t)

		mockS3.EXPECT().
			UploadFileBytes(gomock.Any(), "innkeep-documents", "idproof", "front.png", "image/png", []byte("fake png bytes")).
			Return("https://cdn.example.com/idproof/front.png", nil)

		res, err := svc.UploadIDProofBase64(context.Background(), dto.UploadIDProofBase64Request{
			Label:    "id_proof_front",
			FileName: "front.png",
			Data:     pngDataURI(),
		})

		assert.NoError(t, err)
		assert.Equal(t, "id_proof_front", res.Label)
		assert.Equal(t, "https://cdn.example.com/idproof/front.png", res.URL)
		assert.Equal(t, "front.png", res.FileName)
	})

	t.Run("rejects a non-image data URI", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.UploadIDProofBase64(context.Background(), dto.UploadIDProofBase64Request{
			Label:    "id_proof_front",
			FileName: "front.pdf",
			Data:     "data:application/pdf;base64,aGVsbG8=",
		})

		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("rejects invalid base64 payloads", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.UploadIDProofBase64(context.Background(), dto.UploadIDProofBase64Request{
			Label:    "id_proof_front",
			FileName: "front.png",
			Data:     "data:image/png;base64,!!!not-base64!!!",
		})

		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		svc, mockS3 := newService(t)

		mockS3.EXPECT().
			UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("access denied"))

		_, err := svc.UploadIDProofBase64(context.Background(), dto.UploadIDProofBase64Request{
			Label:    "id_proof_front",
			FileName: "front.png",
			Data:     pngDataURI(),
		})

		assert.Error(t, err)
	})
}

func TestDocumentService_DeleteIDProofs(t *testing.T) {
	t.Run("deletes every resolvable object", func(t *testing.T) {
		svc, mockS3 := newService(t)

		mockS3.EXPECT().
			GetObjectNameFromURL("innkeep-documents", "https://cdn.example.com/idproof/front.png").
			Return("front.png")
		mockS3.EXPECT().
			GetObjectNameFromURL("innkeep-documents", "https://cdn.example.com/idproof/back.png").
			Return("back.png")
		mockS3.EXPECT().DeleteFile(gomock.Any(), "innkeep-documents", "idproof", "front.png").Return(nil)
		mockS3.EXPECT().DeleteFile(gomock.Any(), "innkeep-documents", "idproof", "back.png").Return(nil)

		err := svc.DeleteIDProofs(context.Background(), dto.DeleteIDProofRequest{
			URLs: []string{
				"https://cdn.example.com/idproof/front.png",
				"https://cdn.example.com/idproof/back.png",
			},
		})

		assert.NoError(t, err)
	})

	t.Run("skips unresolvable URLs", func(t *testing.T) {
		svc, mockS3 := newService(t)

		mockS3.EXPECT().
			GetObjectNameFromURL("innkeep-documents", "https://elsewhere.example.com/unrelated").
			Return("")

		err := svc.DeleteIDProofs(context.Background(), dto.DeleteIDProofRequest{
			URLs: []string{"https://elsewhere.example.com/unrelated"},
		})

		assert.NoError(t, err)
	})

	t.Run("reports objects that failed to delete", func(t *testing.T) {
		svc, mockS3 := newService(t)

		mockS3.EXPECT().
			GetObjectNameFromURL("innkeep-documents", "https://cdn.example.com/idproof/front.png").
			Return("front.png")
		mockS3.EXPECT().
			DeleteFile(gomock.Any(), "innkeep-documents", "idproof", "front.png").
			Return(errors.New("access denied"))

		err := svc.DeleteIDProofs(context.Background(), dto.DeleteIDProofRequest{
			URLs: []string{"https://cdn.example.com/idproof/front.png"},
		})

		assert.Error(t, err)
	})
}
