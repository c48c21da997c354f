package task

// RelatedFileType classifies how a file relates to a task.
type RelatedFileType string

const (
	FileToModify   RelatedFileType = "TO_MODIFY"
	FileReference  RelatedFileType = "REFERENCE"
	FileCreate     RelatedFileType = "CREATE"
	FileDependency RelatedFileType = "DEPENDENCY"
	FileOther      RelatedFileType = "OTHER"
)

// ValidRelatedFileTypes returns all valid related-file type values.
func ValidRelatedFileTypes() []RelatedFileType {
	return []RelatedFileType{FileToModify, FileReference, FileCreate, FileDependency, FileOther}
}

// IsValidRelatedFileType returns true if the type is a valid value.
func IsValidRelatedFileType(ft RelatedFileType) bool {
	switch ft {
	case FileToModify, FileReference, FileCreate, FileDependency, FileOther:
		return true
	default:
		return false
	}
}

// RelatedFile is a metadata reference to a file relevant to a task.
// LineStart and LineEnd are either both set or both absent.
type RelatedFile struct {
	Path        string          `json:"path" yaml:"path"`
	Type        RelatedFileType `json:"type" yaml:"type"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	LineStart   *int            `json:"lineStart,omitempty" yaml:"lineStart,omitempty"`
	LineEnd     *int            `json:"lineEnd,omitempty" yaml:"lineEnd,omitempty"`
}
