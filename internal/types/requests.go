package types

import "github.com/go-playground/validator/v10"

// CreateJobRequest represents the request to create a screening job.
// Exactly one of JD or JDURL must be set; JobID is generated when absent.
type CreateJobRequest struct {
	JobID     string `json:"job_id,omitempty"`
	JD        string `json:"jd,omitempty" validate:"required_without=JDURL,excluded_with=JDURL"`
	JDURL     string `json:"jd_url,omitempty" validate:"omitempty,url"`
	Checklist string `json:"checklist,omitempty"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
