// Package docverify implements the tamper-evident document pipeline:
// canonical payload building, content hashing, verification-code
// issuance, and post-issuance tamper validation.
package docverify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/acadhub/academic-core/internal/domain/academic"
)

// ══════════════════════════════════════════════════════════════════════════════
// CANONICAL PAYLOAD
// ══════════════════════════════════════════════════════════════════════════════

// Payload is the stable representation of a document's academic
// content. It is the hashing input: two builds from the same underlying
// data must serialize to identical bytes.
type Payload struct {
	Institution InstitutionSection `json:"institution"`
	Student     StudentSection     `json:"student"`
	Enrollments []LineItem         `json:"enrollments"`
}

// InstitutionSection carries institution display identity.
type InstitutionSection struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// StudentSection carries the student identity snapshot.
type StudentSection struct {
	StudentRef     string `json:"student_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EntryLevel     string `json:"entry_level"`
	CurrentLevel   string `json:"current_level"`
	CurrentSession string `json:"current_session"`
}

// LineItem is one enrollment row. Pointer fields are null for ungraded
// attempts and for grades withheld by the transcript approval gate.
type LineItem struct {
	Session     string   `json:"session"`
	Semester    string   `json:"semester"`
	CourseCode  string   `json:"course_code"`
	CourseTitle string   `json:"course_title"`
	Units       int      `json:"units"`
	Grade       *string  `json:"grade"`
	TotalScore  *float64 `json:"total_score"`
	GradePoint  *float64 `json:"grade_point"`
}

// Builder produces canonical payloads from academic records.
type Builder struct {
	scale  *academic.GradingScale
	policy academic.Policy
}

// NewBuilder creates a payload builder. The scale resolves grade
// points for line items; the policy's transcript gate decides whether
// unapproved grades are rendered.
func NewBuilder(scale *academic.GradingScale, policy academic.Policy) *Builder {
	return &Builder{scale: scale, policy: policy}
}

// Build assembles the payload for a student and their enrollments.
// The enrollment order given by the caller is preserved; callers load
// enrollments in a stable order so repeated builds are byte-identical.
func (b *Builder) Build(student *academic.Student, enrollments []academic.Enrollment, inst academic.Institution) *Payload {
	items := make([]LineItem, 0, len(enrollments))
	for _, en := range enrollments {
		items = append(items, b.buildLineItem(en))
	}

	return &Payload{
		Institution: InstitutionSection{
			Name:    inst.Name,
			Address: inst.Address,
		},
		Student: StudentSection{
			StudentRef:     student.StudentRef,
			FirstName:      student.FirstName,
			LastName:       student.LastName,
			EntryLevel:     student.EntryLevel,
			CurrentLevel:   student.CurrentLevel,
			CurrentSession: student.CurrentSession,
		},
		Enrollments: items,
	}
}

// buildLineItem renders one enrollment row. With the transcript gate
// on, unapproved grades are withheld: the row stays, grade fields are
// null, exactly as the generated document displays a pending result.
func (b *Builder) buildLineItem(en academic.Enrollment) LineItem {
	item := LineItem{
		Session:     en.Session,
		Semester:    string(en.Semester),
		CourseCode:  en.CourseCode,
		CourseTitle: en.CourseTitle,
		Units:       en.Units,
	}

	if !en.Grade.HasLetter() {
		return item
	}
	if b.policy.RequireApprovedForTranscripts && !en.Grade.Status.IsApproved() {
		return item
	}

	letter := en.Grade.Letter
	score := en.Grade.TotalScore
	item.Grade = &letter
	item.TotalScore = &score
	if point, ok := b.scale.PointFor(letter); ok {
		item.GradePoint = &point
	}
	return item
}

// ══════════════════════════════════════════════════════════════════════════════
// CANONICAL JSON ENCODING
// ══════════════════════════════════════════════════════════════════════════════

// CanonicalJSON serializes a value to deterministic bytes: object keys
// sorted, compact separators, no HTML escaping, number literals kept
// verbatim. Identical input always yields identical bytes, which is
// the load-bearing property behind tamper detection.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return CanonicalizeRaw(raw)
}

// CanonicalizeRaw re-encodes already-serialized JSON into canonical
// form. Used during verification to normalize the stored payload
// snapshot before hashing.
func CanonicalizeRaw(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to decode payload JSON: %w", err)
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(val.String())
	case string:
		return writeCanonicalString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported JSON value of type %T", v)
	}
	return nil
}

// writeCanonicalString encodes a string without HTML escaping.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode string: %w", err)
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
