package requestresponse

import (
	"crm-file-server/internal/model"
	"time"
)

// CreateFileRequest : мета-данные нового документа
type CreateFileRequest struct {
	Title            string `json:"title" example:"Договор поставки"`
	OriginalFilename string `json:"original_filename" example:"contract.pdf"`
	DocType          string `json:"doc_type" example:"contract"`
	MimeType         string `json:"mime_type" example:"application/pdf"`
	SizeBytes        int64  `json:"size_bytes" example:"102400"`
}

// CreateFileResponse : ответ при создании документа
type CreateFileResponse struct {
	FileID     string `json:"file_id" example:"c7a1f1f0-1111-4e2a-9c77-000000000001"`
	UploadURL  string `json:"upload_url"`
	Token      string `json:"token"`
	StorageKey string `json:"storage_key" example:"org-uuid/file-uuid/contract.pdf"`
	ExpiresIn  int    `json:"expires_in_seconds" example:"900"`
}

// NewVersionRequest : мета-данные новой версии существующего документа
type NewVersionRequest struct {
	OriginalFilename string `json:"original_filename" example:"contract_v2.pdf"`
	MimeType         string `json:"mime_type" example:"application/pdf"`
	SizeBytes        int64  `json:"size_bytes" example:"104448"`
}

// NewVersionResponse : ответ при создании новой версии
type NewVersionResponse struct {
	NewFileID     string `json:"new_file_id"`
	VersionNumber int    `json:"version_number" example:"2"`
	ParentFileID  string `json:"parent_file_id"`
	UploadURL     string `json:"upload_url"`
	Token         string `json:"token"`
	StorageKey    string `json:"storage_key"`
	ExpiresIn     int    `json:"expires_in_seconds" example:"900"`
}

// UpdateFileRequest : частичное обновление мета-данных (nil — поле не трогаем)
type UpdateFileRequest struct {
	Title   *string `json:"title,omitempty" example:"Договор поставки (ред. 2)"`
	DocType *string `json:"doc_type,omitempty" example:"contract"`
}

// UpdateFileResponse : обновлённые поля документа
type UpdateFileResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DocType   string    `json:"doc_type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeleteFileResponse : отметка о мягком удалении
type DeleteFileResponse struct {
	ID        string     `json:"id"`
	IsDeleted bool       `json:"is_deleted" example:"true"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// ListVersionsResponse : цепочка версий документа по возрастанию номера
type ListVersionsResponse struct {
	Versions []model.VersionEntry `json:"versions"`
}

// CreateLinkRequest : привязка файла к сущности CRM
type CreateLinkRequest struct {
	FileID     string `json:"file_id"`
	EntityType string `json:"entity_type" example:"deal"`
	EntityID   string `json:"entity_id"`
}

// UploadedBy : информация о загрузившем файл пользователе
type UploadedBy struct {
	ID       string `json:"id"`
	FullName string `json:"full_name" example:"Unknown"`
}

// EntityFileResponse : файл в списке по сущности, с цепочкой версий
type EntityFileResponse struct {
	FileID           string               `json:"id"`
	Title            string               `json:"title"`
	OriginalFilename string               `json:"original_filename"`
	DocType          string               `json:"doc_type"`
	MimeType         string               `json:"mime_type"`
	SizeBytes        int64                `json:"size_bytes"`
	VersionNumber    int                  `json:"version_number"`
	ParentFileID     *string              `json:"parent_file_id,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	UploadedBy       UploadedBy           `json:"uploaded_by"`
	Versions         []model.VersionEntry `json:"versions"`
}

// EntityFilesResponse : ответ со списком файлов сущности
type EntityFilesResponse struct {
	Files []EntityFileResponse `json:"files"`
}

// RelatedFileResponse : файл в транзитивной выдаче, с провенансом связей
type RelatedFileResponse struct {
	FileID           string                 `json:"id"`
	Title            string                 `json:"title"`
	OriginalFilename string                 `json:"original_filename"`
	DocType          string                 `json:"doc_type"`
	MimeType         string                 `json:"mime_type"`
	SizeBytes        int64                  `json:"size_bytes"`
	VersionNumber    int                    `json:"version_number"`
	ParentFileID     *string                `json:"parent_file_id,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	UploadedBy       UploadedBy             `json:"uploaded_by"`
	LinkedTo         []model.LinkProvenance `json:"linked_to"`
}

// RelatedFilesResponse : ответ транзитивного поиска файлов
type RelatedFilesResponse struct {
	Files []RelatedFileResponse `json:"files"`
}

// EntityFileResponseFromModel : конвертирует model.EntityFile в EntityFileResponse
func EntityFileResponseFromModel(file *model.EntityFile) EntityFileResponse {
	return EntityFileResponse{
		FileID:           file.UUID,
		Title:            file.Title,
		OriginalFilename: file.FilenameOriginal,
		DocType:          file.DocType,
		MimeType:         file.MimeType,
		SizeBytes:        file.SizeBytes,
		VersionNumber:    file.Version,
		ParentFileID:     file.ParentUUID,
		CreatedAt:        file.CreatedAt,
		UpdatedAt:        file.UpdatedAt,
		UploadedBy:       UploadedBy{ID: file.UploadedBy, FullName: file.UploadedByName},
		Versions:         file.Versions,
	}
}

// RelatedFileResponseFromModel : конвертирует model.RelatedFile в RelatedFileResponse
func RelatedFileResponseFromModel(file *model.RelatedFile) RelatedFileResponse {
	return RelatedFileResponse{
		FileID:           file.UUID,
		Title:            file.Title,
		OriginalFilename: file.FilenameOriginal,
		DocType:          file.DocType,
		MimeType:         file.MimeType,
		SizeBytes:        file.SizeBytes,
		VersionNumber:    file.Version,
		ParentFileID:     file.ParentUUID,
		CreatedAt:        file.CreatedAt,
		UpdatedAt:        file.UpdatedAt,
		UploadedBy:       UploadedBy{ID: file.UploadedBy, FullName: file.UploadedByName},
		LinkedTo:         file.LinkedTo,
	}
}
