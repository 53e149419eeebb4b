package dto

import "time"

type CreateObjectTableRequest struct {
	TableName   string                 `json:"table_name" validate:"required"`
	FilePattern string                 `json:"file_pattern,omitempty"`
	FileFormat  string                 `json:"file_format,omitempty"`
	Options     map[string]interface{} `json:"options,omitempty"`
}

type CreateObjectTableResponse struct {
	TableID     string    `json:"table_id"`
	BucketName  string    `json:"bucket_name"`
	FilePattern string    `json:"file_pattern"`
	FileFormat  string    `json:"file_format"`
	CreatedAt   time.Time `json:"created_at"`
}

type QueryObjectTableRequest struct {
	TableName string   `json:"table_name" validate:"required"`
	Columns   []string `json:"columns,omitempty"`
	Where     string   `json:"where,omitempty"`
	Limit     int      `json:"limit,omitempty" validate:"omitempty,gte=1,lte=1000"`
}

type QueryObjectTableResponse struct {
	Rows      []map[string]interface{} `json:"rows"`
	TotalRows int                      `json:"total_rows"`
}

type AnalyzeObjectTableRequest struct {
	TableName    string `json:"table_name" validate:"required"`
	AnalysisType string `json:"analysis_type,omitempty" validate:"omitempty,oneof=general text_extraction image_analysis document_summary"`
	ModelName    string `json:"model_name,omitempty"`
	Limit        int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=1000"`
}

type AnalyzeObjectTableResponse struct {
	AnalysisType string                   `json:"analysis_type"`
	Rows         []map[string]interface{} `json:"rows"`
	Insights     map[string]interface{}   `json:"insights"`
}

type CreateObjectRefRequest struct {
	FilePath   string                 `json:"file_path" validate:"required"`
	ObjectType string                 `json:"object_type,omitempty"`
	Options    map[string]interface{} `json:"options,omitempty"`
}

type CreateObjectRefResponse struct {
	ObjectRef  string    `json:"object_ref"`
	BucketName string    `json:"bucket_name"`
	FilePath   string    `json:"file_path"`
	ObjectType string    `json:"object_type"`
	CreatedAt  time.Time `json:"created_at"`
}

type AnalyzeObjectRefRequest struct {
	ObjectRef string                 `json:"object_ref" validate:"required"`
	Prompt    string                 `json:"prompt" validate:"required"`
	ModelName string                 `json:"model_name,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

type AnalyzeObjectRefResponse struct {
	AnalysisID string `json:"analysis_id"`
	ObjectRef  string `json:"object_ref"`
	Result     string `json:"result"`
	ModelName  string `json:"model_name"`
}

type BatchAnalyzeObjectRefRequest struct {
	Requests []AnalyzeObjectRefRequest `json:"requests" validate:"required,min=1,max=50,dive"`
}

type BatchAnalyzeObjectRefResult struct {
	Index    int                      `json:"index"`
	Success  bool                     `json:"success"`
	Response *AnalyzeObjectRefResponse `json:"response,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

type BatchAnalyzeObjectRefResponse struct {
	Results        []BatchAnalyzeObjectRefResult `json:"results"`
	TotalProcessed int                           `json:"total_processed"`
	Successful     int                           `json:"successful"`
}

type ObjectRefStatsResponse struct {
	Stats map[string]interface{} `json:"stats"`
}
