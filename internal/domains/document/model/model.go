package model

const (
	EntityName = "idproof"
)

// Labels identify which side of the id proof a document holds.
const (
	LabelIDProofFront = "id_proof_front"
	LabelIDProofBack  = "id_proof_back"
)
