package model

import "time"

// MaxFileSizeBytes : максимальный размер загружаемого файла (50 MiB)
const MaxFileSizeBytes int64 = 50 * 1024 * 1024

// Типы документов
const (
	DocTypeContract = "contract"
	DocTypeReceipt  = "receipt"
	DocTypeProposal = "proposal"
	DocTypeInvoice  = "invoice"
	DocTypeOther    = "other"
)

// Типы сущностей CRM, к которым привязываются файлы
const (
	EntityTypeDeal    = "deal"
	EntityTypeCompany = "company"
	EntityTypeContact = "contact"
)

func IsValidDocType(docType string) bool {
	switch docType {
	case DocTypeContract, DocTypeReceipt, DocTypeProposal, DocTypeInvoice, DocTypeOther:
		return true
	}
	return false
}

func IsValidEntityType(entityType string) bool {
	switch entityType {
	case EntityTypeDeal, EntityTypeCompany, EntityTypeContact:
		return true
	}
	return false
}

// File : физическая загрузка документа, одна строка на версию.
// Все версии одного логического документа ссылаются напрямую на корень
// (ParentUUID = uuid корня), цепочка плоская, не связный список.
type File struct {
	UUID             string     `db:"uuid" json:"id"`
	OrgUUID          string     `db:"org_uuid" json:"org_id"`
	UploadedBy       string     `db:"uploaded_by" json:"uploaded_by_user_id"`
	Title            string     `db:"title" json:"title"`
	FilenameOriginal string     `db:"filename_original" json:"original_filename"`
	DocType          string     `db:"doc_type" json:"doc_type"`
	MimeType         string     `db:"mime_type" json:"mime_type"`
	SizeBytes        int64      `db:"size_bytes" json:"size_bytes"`
	Bucket           string     `db:"bucket" json:"-"`
	StorageKey       string     `db:"storage_key" json:"-"`
	Version          int        `db:"version" json:"version_number"`
	ParentUUID       *string    `db:"parent_uuid" json:"parent_file_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted        bool       `db:"is_deleted" json:"-"`
	DeletedAt        *time.Time `db:"deleted_at" json:"-"`
	DeletedBy        *string    `db:"deleted_by" json:"-"`
}

// RootUUID : uuid корня цепочки (сам файл, если он корень)
func (f *File) RootUUID() string {
	if f.ParentUUID != nil && *f.ParentUUID != "" {
		return *f.ParentUUID
	}
	return f.UUID
}

// FileLink : привязка файла к сущности CRM.
// Тройка (file, entity_type, entity_id) уникальна в рамках организации.
type FileLink struct {
	UUID       string    `db:"uuid" json:"id"`
	OrgUUID    string    `db:"org_uuid" json:"org_id"`
	FileUUID   string    `db:"file_uuid" json:"file_id"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityUUID string    `db:"entity_uuid" json:"entity_id"`
	CreatedBy  string    `db:"created_by" json:"created_by_user_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DealRef : идентификатор и имя сделки, нужны при обходе связей
type DealRef struct {
	UUID string `db:"uuid"`
	Name string `db:"name"`
}

// VersionEntry : элемент цепочки версий в ответах
type VersionEntry struct {
	UUID      string    `json:"id"`
	Version   int       `json:"version_number"`
	Title     string    `json:"title"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadHandle : одноразовая ссылка на загрузку байтов в хранилище
type UploadHandle struct {
	URL        string `json:"upload_url"`
	Token      string `json:"token"`
	StorageKey string `json:"storage_key"`
	ExpiresIn  int    `json:"expires_in_seconds"`
}

// ViewHandle : короткоживущая ссылка на скачивание/просмотр
type ViewHandle struct {
	URL       string `json:"view_url"`
	MimeType  string `json:"mime_type"`
	Filename  string `json:"filename"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

// CreateFileInput : данные для создания нового документа (версия 1)
type CreateFileInput struct {
	Title            string
	FilenameOriginal string
	DocType          string
	MimeType         string
	SizeBytes        int64
}

type CreateFileResult struct {
	FileUUID string
	Handle   *UploadHandle
}

// NewVersionInput : данные для создания очередной версии документа
type NewVersionInput struct {
	FilenameOriginal string
	MimeType         string
	SizeBytes        int64
}

type NewVersionResult struct {
	FileUUID string
	Version  int
	RootUUID string
	Handle   *UploadHandle
}

// LinkProvenance : путь, по которому файл был найден при транзитивном обходе
type LinkProvenance struct {
	EntityType string `json:"entity_type"`
	EntityUUID string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
}

// RelatedFile : файл с провенансом связей и именем загрузившего
type RelatedFile struct {
	File
	UploadedByName string           `json:"-"`
	LinkedTo       []LinkProvenance `json:"linked_to"`
}

// EntityFile : файл в выдаче по конкретной сущности, с цепочкой версий
type EntityFile struct {
	File
	UploadedByName string         `json:"-"`
	Versions       []VersionEntry `json:"versions"`
}
