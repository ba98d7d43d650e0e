package dto

import "github.com/cuongbtq/jobly-be/internal/api/model"

type CreateJobRequest struct {
	Title         string  `json:"title" binding:"required"`
	Salary        *int    `json:"salary" binding:"omitempty,min=0"`
	Equity        *string `json:"equity" binding:"omitempty,equity"`
	CompanyHandle string  `json:"companyHandle" binding:"required"`
}

// UpdateJobRequest lists the fields a client may change. Id and company are fixed.
type UpdateJobRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1"`
	Salary *int    `json:"salary" binding:"omitempty,min=0"`
	Equity *string `json:"equity" binding:"omitempty,equity"`
}

type ListJobsRequest struct {
	MinSalary *int    `form:"minSalary" binding:"omitempty,min=0"`
	HasEquity *bool   `form:"hasEquity"`
	Title     *string `form:"title"`
}

type JobURI struct {
	ID int `uri:"id" binding:"required,min=1"`
}

type JobResponse struct {
	Job *model.Job `json:"job"`
}

type JobDetailResponse struct {
	Job *model.JobDetail `json:"job"`
}

type ListJobsResponse struct {
	Jobs []model.JobListing `json:"jobs"`
}

type DeleteJobResponse struct {
	Deleted int `json:"deleted"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
