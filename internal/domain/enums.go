package domain

// FileType represents the allowed invoice upload types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeWEBP FileType = "webp"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeWEBP: "image/webp",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"webp": FileTypeWEBP,
}

// DefaultMimeType is used when an upload carries no content type.
const DefaultMimeType = "image/png"

// Partition names one of the two physical datasets of a layered table.
type Partition string

const (
	PartitionReference Partition = "reference"
	PartitionExtracted Partition = "extracted"
)

// Source selects which partitions a read covers.
type Source string

const (
	SourceReference Source = "reference"
	SourceExtracted Source = "extracted"
	SourceBoth      Source = "both"
)

// ParseSource converts a query value to a Source. "all" is accepted as an alias of "both".
func ParseSource(s string) (Source, bool) {
	switch s {
	case "", string(SourceExtracted):
		return SourceExtracted, true
	case string(SourceReference):
		return SourceReference, true
	case string(SourceBoth), "all":
		return SourceBoth, true
	default:
		return "", false
	}
}

// Includes reports whether the selector covers partition p.
func (s Source) Includes(p Partition) bool {
	return s == SourceBoth || string(s) == string(p)
}

// OrderStatusNew is the status assigned to orders created from extracted invoices.
const OrderStatusNew = 1

// CustomerType distinguishes customer search matches.
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeStore      CustomerType = "store"
)

// StreamStep identifies a stage of the staged upload pipeline. Steps are emitted in
// declaration order.
type StreamStep string

const (
	StepValidate StreamStep = "validate"
	StepUpload   StreamStep = "upload"
	StepAnalyze  StreamStep = "analyze"
	StepExtract  StreamStep = "extract"
	StepSave     StreamStep = "save"
)

// StepStatus is the state of a stream step.
type StepStatus string

const (
	StepActive   StepStatus = "active"
	StepComplete StepStatus = "complete"
	StepError    StepStatus = "error"
)
