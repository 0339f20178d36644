package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Category classifies a stored document.
type Category string

const (
	CategoryProposal    Category = "제안서"
	CategoryTechnical   Category = "기술문서"
	CategoryContract    Category = "계약서"
	CategoryBusiness    Category = "사업분석"
	CategoryCompetitor  Category = "경쟁사분석"
	CategoryRegulation  Category = "법규제"
	CategoryBestPractic Category = "모범사례"

	// CategoryAll is the sentinel used in search requests and log rows
	// when no category filter is applied.
	CategoryAll Category = "전체"
)

// Categories maps each valid document category to a short description.
var Categories = map[Category]string{
	CategoryProposal:    "제안서 템플릿, 우수 제안서 사례",
	CategoryTechnical:   "기술 사양서, 아키텍처 문서",
	CategoryContract:    "계약서 템플릿, 계약 조건",
	CategoryBusiness:    "시장 분석, 산업 동향",
	CategoryCompetitor:  "경쟁사 정보, 벤치마킹",
	CategoryRegulation:  "관련 법규, 컴플라이언스",
	CategoryBestPractic: "성공 사례, 노하우",
}

// PreviewLength is the number of leading characters of extracted text
// kept as a document's content preview.
const PreviewLength = 500

// Document is the metadata record for a stored artifact.
// The ID is immutable once assigned and the ContentHash must match the
// stored byte payload.
type Document struct {
	ID             string
	Filename       string
	Category       Category
	Description    string
	ContentHash    string
	UploadDate     time.Time
	FileSize       int64
	ContentPreview string
}

// DocumentContent holds the full extracted text and keywords for a
// document. It exists iff the parent Document exists.
type DocumentContent struct {
	DocumentID string
	Content    string
	Keywords   []string
}

// SearchLogEntry is an append-only audit record written once per search.
type SearchLogEntry struct {
	ID           int64
	Query        string
	Category     Category
	ResultsCount int
	SearchTime   float64 // seconds
	Timestamp    time.Time
}

// RankedResult is a search candidate with its relevance score attached.
// AIRelevanceNote is populated only when best-effort enrichment succeeds.
type RankedResult struct {
	DocumentID      string
	Filename        string
	Category        Category
	Description     string
	UploadDate      time.Time
	ContentPreview  string
	Keywords        []string
	RelevanceScore  float64
	AIRelevanceNote string
}

// SearchResponse is the caller-visible result of a search call.
type SearchResponse struct {
	Results     []RankedResult
	TotalCount  int
	SearchTime  float64 // seconds
	Query       string
	Category    Category
	Suggestions []string
}

// QueryCount pairs a logged query with how often it was issued.
type QueryCount struct {
	Query string
	Count int
}

// RecentDocument is a compact view used in statistics.
type RecentDocument struct {
	Filename   string
	Category   Category
	UploadDate time.Time
}

// Statistics summarizes the knowledge base contents.
type Statistics struct {
	TotalDocuments  int
	CategoryCounts  map[Category]int
	RecentDocuments []RecentDocument
	PopularQueries  []QueryCount
}

// ContentHash computes the checksum of a document payload using BLAKE2b.
// Identical payloads always produce identical hashes.
func ContentHash(content []byte) string {
	h, _ := blake2b.New(16, nil)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// NewDocumentID derives a document ID from the category, an upload
// timestamp, and the payload hash prefix. IDs are globally unique as
// long as two uploads of the same payload do not land on the same
// second within the same category.
func NewDocumentID(category Category, uploadedAt time.Time, contentHash string) string {
	prefix := contentHash
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("%s_%d_%s", category, uploadedAt.Unix(), prefix)
}

// HashUint64 folds arbitrary text into a 64-bit BLAKE2b digest.
// Used for compact deterministic keys.
func HashUint64(text string) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// Preview returns the first PreviewLength characters of text.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}
