package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"innkeep/infras/otel"
	"innkeep/internal/domains/document/model/dto"
	"innkeep/internal/domains/document/service"
	"innkeep/shared/constant"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"
)

type Handler struct {
	service service.Document
	otel    otel.Otel
}

func New(service service.Document, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/documents", func(routerGroup chi.Router) {
		routerGroup.Post("/idproof", handler.UploadIDProof)
		routerGroup.Post("/idproof/base64", handler.UploadIDProofBase64)
		routerGroup.Delete("/idproof", handler.DeleteIDProofs)
	})
}

// UploadIDProof handles id-proof image upload to S3.
// @Summary Upload a guest id-proof image
// @Description Upload an id-proof image and return its labelled URL for the check-in form.
// @Tags Document
// @Accept multipart/form-data
// @Produce json
// @Param label formData string true "Document label (id_proof_front or id_proof_back)"
// @Param file formData file true "Image file to upload"
// @Success 200 {object} dto.UploadIDProofResponse "Id proof uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/documents/idproof [post]
// @Security BearerAuth
func (handler *Handler) UploadIDProof(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadIDProof")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, err)

		return
	}
	defer file.Close()

	req := dto.UploadIDProofRequest{
		Label:     r.FormValue("label"),
		Image:     fileHeader,
		ImageFile: file,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadIDProof(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload id proof")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Id proof uploaded successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// UploadIDProofBase64 handles id-proof upload as a base64 data URI.
// @Summary Upload a guest id-proof image as base64
// @Description Upload an id-proof image captured by the console camera as a data URI.
// @Tags Document
// @Accept json
// @Produce json
// @Param request body dto.UploadIDProofBase64Request true "Upload Request"
// @Success 200 {object} dto.UploadIDProofResponse "Id proof uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/documents/idproof/base64 [post]
// @Security BearerAuth
func (handler *Handler) UploadIDProofBase64(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadIDProofBase64")
	defer scope.End()

	req := dto.UploadIDProofBase64Request{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadIDProofBase64(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload id proof")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Id proof uploaded successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteIDProofs removes uploaded id-proof images from S3.
// @Summary Delete guest id-proof images
// @Description Delete uploaded id-proof images by URL.
// @Tags Document
// @Accept json
// @Produce json
// @Param request body dto.DeleteIDProofRequest true "Delete Request"
// @Success 200 {object} response.Message "Id proofs deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/documents/idproof [delete]
// @Security BearerAuth
func (handler *Handler) DeleteIDProofs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteIDProofs")
	defer scope.End()

	req := dto.DeleteIDProofRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.DeleteIDProofs(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete id proofs")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Id proofs deleted successfully")

	response.WithMessage(w, http.StatusOK, "Id proofs deleted successfully")
}
