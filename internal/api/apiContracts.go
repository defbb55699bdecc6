package api

type MessageResponse struct {
	Message string `json:"message" example:"PDF Chat App backend is running!"`
}

type MsgResponse struct {
	Msg string `json:"msg" example:"PDF deleted successfully."`
}

type ErrorResponse struct {
	Error string `json:"error" example:"PDF not found or not owned by user."`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

type UploadResponse struct {
	Filename  string `json:"filename" example:"report.pdf"`
	FileId    string `json:"file_id" example:"0b0f6a4e-3c1e-4a55-9b0a-4fd3f1f0a2b1"`
	Size      int64  `json:"size" example:"48213"`
	NumChunks int    `json:"num_chunks" example:"12"`
	NumImages int    `json:"num_images" example:"2"`
}

type DocumentItem struct {
	FileId   string `json:"file_id"`
	Filename string `json:"filename"`
}

type HistoryItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ChatResponse struct {
	Question         string   `json:"question"`
	Pdf              string   `json:"pdf" example:"report.pdf"`
	AnswerFormat     string   `json:"answer_format" example:"points"`
	ResponseLanguage string   `json:"response_language" example:"English"`
	Answer           string   `json:"answer"`
	Images           []string `json:"images"`
}

// requests---------------------
// all requests are form encoded

type CredentialsRequest struct {
	Username string
	Password string
}

type ChatRequest struct {
	Question         string
	FileId           string
	AnswerFormat     string
	ResponseLanguage string
}
