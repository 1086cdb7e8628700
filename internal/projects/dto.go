package projects

type createRequest struct {
	Title           string  `json:"title" binding:"required,max=200"`
	TargetRole      string  `json:"targetRole" binding:"required,max=100"`
	TargetCity      *string `json:"targetCity" binding:"omitempty,max=100"`
	YearsExperience *int    `json:"yearsExperience" binding:"omitempty,min=0,max=60"`
	SourceText      string  `json:"sourceText" binding:"required"`
}

type createFileForm struct {
	Title           string  `form:"title" binding:"required,max=200"`
	TargetRole      string  `form:"targetRole" binding:"required,max=100"`
	TargetCity      *string `form:"targetCity" binding:"omitempty,max=100"`
	YearsExperience *int    `form:"yearsExperience" binding:"omitempty,min=0,max=60"`
}

type analyzeJDRequest struct {
	JDText string `json:"jdText" binding:"required"`
}

type rewriteRequest struct {
	Mode  string `json:"mode" binding:"omitempty,max=32"`
	UseJD *bool  `json:"useJd"`
}

// useJD defaults to true when the field is omitted.
func (r rewriteRequest) useJD() bool {
	return r.UseJD == nil || *r.UseJD
}

type updateSectionRequest struct {
	OptimizedText *string `json:"optimizedText"`
	Accepted      *bool   `json:"accepted"`
}

type taskResponse struct {
	TaskID string `json:"taskId"`
}
