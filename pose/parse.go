package pose

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrIO is returned when the capture file cannot be read
	ErrIO = errors.New("livepose file unreadable")
	// ErrMalformedDocument is returned when the top-level Data container is missing
	ErrMalformedDocument = errors.New("invalid livepose file: missing 'Data' field")
	// ErrMalformedRecord marks a record skipped while parsing. It never fails a whole document.
	ErrMalformedRecord = errors.New("malformed livepose record")
)

type vec3JSON struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

type rotationJSON struct {
	X          float64 `json:"X"`
	Y          float64 `json:"Y"`
	Z          float64 `json:"Z"`
	W          float64 `json:"W"`
	IsIdentity bool    `json:"IsIdentity"`
}

type transformJSON struct {
	Position *vec3JSON     `json:"Position"`
	Rotation *rotationJSON `json:"Rotation"`
	Scale    *vec3JSON     `json:"Scale"`
}

type stackJSON struct {
	Transform *transformJSON `json:"Transform"`
}

type boneIDJSON struct {
	BoneName *string `json:"BoneName"`
}

type recordJSON struct {
	BonePoseInfoID *boneIDJSON  `json:"BonePoseInfoId"`
	Stacks         *[]stackJSON `json:"Stacks"`
}

type documentJSON struct {
	Data *[]json.RawMessage `json:"Data"`
}

// Load reads and parses the LivePose file at path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return Parse(data)
}

// Decode parses a LivePose document from r
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return Parse(data)
}

// Parse parses a LivePose document. Records that cannot be used are skipped
// and counted in Document.Malformed.
func Parse(data []byte) (*Document, error) {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if raw.Data == nil {
		return nil, ErrMalformedDocument
	}

	doc := &Document{Records: make([]Record, 0, len(*raw.Data))}
	for _, message := range *raw.Data {
		record, err := parseRecord(message)
		if err != nil {
			doc.Malformed++
			continue
		}
		doc.Records = append(doc.Records, record)
	}

	return doc, nil
}

func parseRecord(message json.RawMessage) (Record, error) {
	var raw recordJSON
	if err := json.Unmarshal(message, &raw); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if raw.BonePoseInfoID == nil || raw.BonePoseInfoID.BoneName == nil {
		return Record{}, fmt.Errorf("%w: missing BonePoseInfoId.BoneName", ErrMalformedRecord)
	}
	if raw.Stacks == nil {
		return Record{}, fmt.Errorf("%w: missing Stacks", ErrMalformedRecord)
	}

	record := Record{
		Bone:   *raw.BonePoseInfoID.BoneName,
		Stacks: make([]Delta, 0, len(*raw.Stacks)),
	}
	for _, stack := range *raw.Stacks {
		if stack.Transform == nil {
			continue
		}
		record.Stacks = append(record.Stacks, stack.Transform.delta())
	}

	return record, nil
}

func (t *transformJSON) delta() Delta {
	var d Delta
	if t.Position != nil {
		p := mgl64.Vec3{t.Position.X, t.Position.Y, t.Position.Z}
		d.Position = &p
	}
	if t.Rotation != nil {
		d.Rotation = &Rotation{
			Quat:       QuatFromXYZW(t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W),
			IsIdentity: t.Rotation.IsIdentity,
		}
	}
	if t.Scale != nil {
		s := mgl64.Vec3{t.Scale.X, t.Scale.Y, t.Scale.Z}
		d.Scale = &s
	}
	return d
}
