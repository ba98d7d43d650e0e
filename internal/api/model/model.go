package model

// Job is a row of the jobs table
type Job struct {
	ID            int     `db:"id" json:"id"`
	Title         string  `db:"title" json:"title"`
	Salary        *int    `db:"salary" json:"salary"`
	Equity        *string `db:"equity" json:"equity"`
	CompanyHandle string  `db:"company_handle" json:"companyHandle"`
}

// JobListing is a job row joined with the name of its company
type JobListing struct {
	Job
	CompanyName *string `db:"company_name" json:"companyName"`
}

// Company is the read-only company summary joined onto a job
type Company struct {
	Handle       string  `db:"handle" json:"handle"`
	Name         string  `db:"name" json:"name"`
	Description  string  `db:"description" json:"description"`
	NumEmployees *int    `db:"num_employees" json:"numEmployees"`
	LogoURL      *string `db:"logo_url" json:"logoUrl"`
}

// JobDetail is a job with its company nested in place of the handle
type JobDetail struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Salary  *int     `json:"salary"`
	Equity  *string  `json:"equity"`
	Company *Company `json:"company,omitempty"`
}
