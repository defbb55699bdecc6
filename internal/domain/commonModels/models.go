package commonModels

import "time"

type User struct {
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"hashed_password" bson:"hashed_password"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Document is the persisted index of one uploaded PDF.
type Document struct {
	Id        string     `json:"id" bson:"_id"`
	Owner     string     `json:"owner" bson:"owner"`
	Filename  string     `json:"filename" bson:"filename"`
	Path      string     `json:"path" bson:"path"`
	Size      int64      `json:"size" bson:"size"`
	RawText   string     `json:"text" bson:"text"`
	Chunks    []DocChunk `json:"chunks" bson:"chunks"`
	Images    []ImageRef `json:"images" bson:"images"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// DocChunk Embedding is nil when the embedding call failed for the chunk.
type DocChunk struct {
	Text      string    `json:"text" bson:"text"`
	Embedding []float32 `json:"embedding" bson:"embedding"`
}

type ImageRef struct {
	Page        int    `json:"page" bson:"page"`
	IndexInPage int    `json:"img_idx" bson:"img_idx"`
	Filename    string `json:"filename" bson:"filename"`
}

type ChatRecord struct {
	Id               string    `json:"id" bson:"_id"`
	Question         string    `json:"question" bson:"question"`
	DocumentId       string    `json:"pdf_file_id" bson:"pdf_file_id"`
	AnswerFormat     string    `json:"answer_format" bson:"answer_format"`
	ResponseLanguage string    `json:"response_language" bson:"response_language"`
	Answer           string    `json:"answer" bson:"answer"`
	AskedBy          string    `json:"user" bson:"user"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

func (d Document) HasImage(filename string) bool {
	for _, img := range d.Images {
		if img.Filename == filename {
			return true
		}
	}
	return false
}

// DocumentSummary is what list endpoints need, without chunk payloads.
type DocumentSummary struct {
	Id       string `json:"file_id" bson:"_id"`
	Filename string `json:"filename" bson:"filename"`
}
