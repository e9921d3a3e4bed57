package models

// Avatar pairs a student with the stored original upload and a
// downscaled preview kept directly in the database. At most one row
// exists per student; re-uploads overwrite the row in place.
type Avatar struct {
	ID               int64  `json:"id"`
	StudentID        int64  `json:"studentId"`
	FilePath         string `json:"filePath"`
	FileSize         int64  `json:"fileSize"`
	MediaType        string `json:"mediaType"`
	PreviewData      []byte `json:"-"`
	PreviewMediaType string `json:"previewMediaType"`
}
