package dto

// CreateJobRequest represents a request to open a job
type CreateJobRequest struct {
	Title          string   `json:"title" binding:"required"`
	Location       string   `json:"location"`
	RequiredSkills []string `json:"requiredSkills"`
	HiringMode     string   `json:"hiringMode" binding:"omitempty,oneof=exec volume hybrid"`
	Visibility     string   `json:"visibility" binding:"omitempty,oneof=internal public"`
}

// ListJobsQuery filters the job listing
type ListJobsQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// CreateCandidateRequest represents a request to add a candidate
type CreateCandidateRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	LinkedInURL string `json:"linkedinUrl"`
}

// CreateApplicationRequest links a candidate to a job
type CreateApplicationRequest struct {
	JobID          string `json:"jobId" binding:"required"`
	CandidateID    string `json:"candidateId" binding:"required"`
	CVRef          string `json:"cvRef"`
	HasCoverLetter bool   `json:"hasCoverLetter"`
	Location       string `json:"location"`
	LinkedInURL    string `json:"linkedinUrl"`
}

// IDResponse is returned by create endpoints
type IDResponse struct {
	ID string `json:"id"`
}
