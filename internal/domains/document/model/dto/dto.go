package dto

import (
	"mime/multipart"
)

type UploadIDProofRequest struct {
	Label     string                `json:"label" validate:"required,oneof=id_proof_front id_proof_back"`
	Image     *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	ImageFile multipart.File        `json:"-"`
}

// UploadIDProofBase64Request carries an id-proof image as a data URI, the
// path the console's camera capture uses.
type UploadIDProofBase64Request struct {
	Label    string `json:"label"     validate:"required,oneof=id_proof_front id_proof_back"`
	FileName string `json:"file_name" validate:"required,max=100"`
	Data     string `json:"data"      validate:"required"`
}

type DeleteIDProofRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,url"`
}

type UploadIDProofResponse struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

func (r *UploadIDProofResponse) FromUpload(label, url, fileName string) {
	r.Label = label
	r.URL = url
	r.FileName = fileName
}
