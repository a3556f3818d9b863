package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mind-engage/quizpack/internal/qti"
	"github.com/mind-engage/quizpack/internal/quiz"
)

// File is one named document of a package.
type File struct {
	Path string
	Data []byte
}

// Package holds the three documents generated for one quiz.
type Package struct {
	AssessmentID string
	Files        []File // manifest, assessment, metadata
}

// EntryWriter receives package documents; archive writers implement it.
type EntryWriter interface {
	WriteEntry(name string, data []byte) error
}

// Write hands every document to w in package order.
func (p *Package) Write(w EntryWriter) error {
	for _, f := range p.Files {
		if err := w.WriteEntry(f.Path, f.Data); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

type Options struct {
	// NewID mints identifiers; NewID is used when nil.
	NewID func() string
}

// NewID returns an opaque identifier ("i" + 32 hex digits).
func NewID() string {
	return "i" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BuildPackage assembles the assessment, manifest and metadata documents.
// Identifiers are minted per call and shared by all three documents.
func BuildPackage(q quiz.Quiz, opts Options) (*Package, error) {
	newID := opts.NewID
	if newID == nil {
		newID = NewID
	}
	assessmentID := newID()
	manifestID := newID()
	dependencyID := newID()

	items := make([]item, 0, len(q.Questions))
	for _, question := range q.Questions {
		ids := mintItemIDs(question, newID)
		items = append(items, buildItem(question, ids))
	}

	doc := questestinterop{
		Xmlns:          qti.NSAssessment,
		XmlnsXSI:       qti.NSXSI,
		SchemaLocation: qti.AssessmentSchemaLocation,
		Assessment: assessment{
			Ident:   assessmentID,
			Title:   q.Title,
			Section: section{Ident: qti.SectionIdent, Items: items},
		},
	}

	assessmentPath := qti.AssessmentPath(assessmentID)
	metaPath := qti.MetaPath(assessmentID)
	mf := imsManifest{
		Identifier: manifestID,
		Xmlns:      qti.NSManifest,
		XmlnsIMSMD: qti.NSIMSMD,
		Resources: []imsResource{
			{
				Identifier:   "res_" + assessmentID,
				Type:         qti.ResourceTypeQTI,
				Files:        []imsFile{{Href: assessmentPath}},
				Dependencies: []imsDependency{{IdentifierRef: dependencyID}},
			},
			{
				Identifier: dependencyID,
				Type:       qti.ResourceTypeMeta,
				Href:       metaPath,
				Files:      []imsFile{{Href: metaPath}},
			},
		},
	}

	meta := quizMeta{
		Xmlns:          qti.NSMetadata,
		Identifier:     assessmentID,
		Title:          q.Title,
		PointsPossible: qti.FormatTotalPoints(q.TotalPoints()),
		QuizType:       qti.QuizType,
	}

	pkg := &Package{AssessmentID: assessmentID}
	for _, d := range []struct {
		path string
		v    any
	}{
		{qti.ManifestFile, mf},
		{assessmentPath, doc},
		{metaPath, meta},
	} {
		b, err := marshalDoc(d.v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", d.path, err)
		}
		pkg.Files = append(pkg.Files, File{Path: d.path, Data: b})
	}
	return pkg, nil
}

func marshalDoc(v any) ([]byte, error) {
	b, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(b) + 1)
	buf.WriteString(xml.Header)
	buf.Write(b)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
