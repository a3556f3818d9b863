package parser

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/mind-engage/quizpack/internal/qti"
	"github.com/mind-engage/quizpack/internal/quiz"
)

// EntrySource exposes the named entries of a package. Names are returned in
// container order.
type EntrySource interface {
	Names() []string
	ReadFile(name string) ([]byte, error)
}

type Manifest struct {
	Identifier string
	Resources  []ManifestResource
}

type ManifestResource struct {
	Identifier   string
	Href         string
	Type         string
	Files        []string
	Dependencies []string
}

type imsManifest struct {
	XMLName    xml.Name      `xml:"manifest"`
	Identifier string        `xml:"identifier,attr"`
	Resources  []imsResource `xml:"resources>resource"`
}
type imsResource struct {
	Identifier   string          `xml:"identifier,attr"`
	Href         string          `xml:"href,attr"`
	Type         string          `xml:"type,attr"`
	Files        []imsFile       `xml:"file"`
	Dependencies []imsDependency `xml:"dependency"`
}
type imsFile struct {
	Href string `xml:"href,attr"`
}
type imsDependency struct {
	IdentifierRef string `xml:"identifierref,attr"`
}

func ParseManifest(b []byte) (Manifest, error) {
	var mf imsManifest
	if err := xml.Unmarshal(b, &mf); err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest: %v", quiz.ErrMalformedXML, err)
	}
	out := Manifest{Identifier: mf.Identifier}
	for _, r := range mf.Resources {
		res := ManifestResource{
			Identifier: r.Identifier,
			Href:       r.Href,
			Type:       r.Type,
		}
		for _, f := range r.Files {
			res.Files = append(res.Files, f.Href)
		}
		for _, d := range r.Dependencies {
			res.Dependencies = append(res.Dependencies, d.IdentifierRef)
		}
		out.Resources = append(out.Resources, res)
	}
	return out, nil
}

// MetadataHref returns the path of the quiz metadata document, if listed.
func (m Manifest) MetadataHref() string {
	for _, r := range m.Resources {
		if r.Type != qti.ResourceTypeMeta {
			continue
		}
		if r.Href != "" {
			return r.Href
		}
		if len(r.Files) > 0 {
			return r.Files[0]
		}
	}
	return ""
}

func isManifest(name string) bool {
	return strings.Contains(strings.ToLower(name), "imsmanifest")
}

func isMetadata(name string) bool {
	return strings.Contains(strings.ToLower(name), strings.TrimSuffix(qti.MetaFile, ".xml"))
}

// FindAssessment returns the first XML entry that is neither the manifest
// nor the quiz metadata. Later candidates are ignored.
func FindAssessment(src EntrySource) (string, error) {
	for _, name := range src.Names() {
		if !strings.HasSuffix(strings.ToLower(name), ".xml") {
			continue
		}
		if isManifest(name) || isMetadata(name) {
			continue
		}
		return name, nil
	}
	return "", quiz.ErrNoAssessment
}

// findMetadata locates the quiz metadata document, preferring the manifest.
func findMetadata(src EntrySource) string {
	names := src.Names()
	for _, name := range names {
		if !isManifest(name) {
			continue
		}
		b, err := src.ReadFile(name)
		if err != nil {
			break
		}
		mf, err := ParseManifest(b)
		if err != nil {
			break
		}
		if href := mf.MetadataHref(); href != "" {
			for _, n := range names {
				if n == href {
					return href
				}
			}
		}
		break
	}
	for _, name := range names {
		if isMetadata(name) {
			return name
		}
	}
	return ""
}
