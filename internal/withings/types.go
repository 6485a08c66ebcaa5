package withings

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Category distinguishes real measurements from user objectives.
type Category int

const (
	CategoryMeasures  Category = 1
	CategoryObjective Category = 2
)

// String returns a short label for the category.
func (c Category) String() string {
	switch c {
	case CategoryMeasures:
		return "measure"
	case CategoryObjective:
		return "objective"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// MeasureType identifies the physical quantity of a measure.
type MeasureType int

const (
	TypeWeight        MeasureType = 1
	TypeSize          MeasureType = 4
	TypeFatFreeMass   MeasureType = 5
	TypeFatRatio      MeasureType = 6
	TypeFatMassWeight MeasureType = 8
)

// String returns a short label for the measure type.
func (t MeasureType) String() string {
	switch t {
	case TypeWeight:
		return "weight"
	case TypeSize:
		return "size"
	case TypeFatFreeMass:
		return "fat-free mass"
	case TypeFatRatio:
		return "fat ratio"
	case TypeFatMassWeight:
		return "fat mass"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Attribution describes how a measure group was attributed to the user.
type Attribution int

const (
	AttribKnown     Attribution = 0
	AttribAmbiguous Attribution = 1
	AttribManual    Attribution = 2
	AttribCreation  Attribution = 4
)

// Response is the envelope every WBS API action returns.
type Response struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
	// Raw holds the full payload as received.
	Raw json.RawMessage `json:"-"`
}

// StatusError reports a non-zero service status.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("withings status %d", e.Status)
}

// Err returns a *StatusError when the service reported a failure.
func (r *Response) Err() error {
	if r == nil {
		return fmt.Errorf("response is nil")
	}
	if r.Status != 0 {
		return &StatusError{Status: r.Status}
	}
	return nil
}

// DecodeBody unmarshals the body into dest.
func (r *Response) DecodeBody(dest any) error {
	if r == nil {
		return fmt.Errorf("response is nil")
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("decode body: body is empty")
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// Measures decodes a getmeas body.
func (r *Response) Measures() (MeasureBody, error) {
	var body MeasureBody
	err := r.DecodeBody(&body)
	return body, err
}

// Users decodes a getbyuserid or getuserslist body.
func (r *Response) Users() (UsersBody, error) {
	var body UsersBody
	err := r.DecodeBody(&body)
	return body, err
}

// OnceBody mirrors the once/get payload.
type OnceBody struct {
	Once string `json:"once"`
}

// MeasureBody mirrors the measure/getmeas payload.
type MeasureBody struct {
	UpdateTime  int64          `json:"updatetime"`
	More        int            `json:"more"`
	MeasureGrps []MeasureGroup `json:"measuregrps"`
}

// Updated returns the server update time.
func (b MeasureBody) Updated() time.Time {
	if b.UpdateTime == 0 {
		return time.Time{}
	}
	return time.Unix(b.UpdateTime, 0)
}

// MeasureGroup is a set of measures taken at the same moment.
type MeasureGroup struct {
	GroupID  int64       `json:"grpid"`
	Attrib   Attribution `json:"attrib"`
	Date     int64       `json:"date"`
	Category Category    `json:"category"`
	Measures []Measure   `json:"measures"`
}

// Time returns the group date.
func (g MeasureGroup) Time() time.Time {
	return time.Unix(g.Date, 0)
}

// Value returns the first measure of the given type.
func (g MeasureGroup) Value(t MeasureType) (float64, bool) {
	for _, m := range g.Measures {
		if m.Type == t {
			return m.Float(), true
		}
	}
	return 0, false
}

// Measure is a single value expressed as Value * 10^Unit.
type Measure struct {
	Value int64       `json:"value"`
	Type  MeasureType `json:"type"`
	Unit  int         `json:"unit"`
}

// Float returns the decoded value.
func (m Measure) Float() float64 {
	return float64(m.Value) * math.Pow10(m.Unit)
}

// SortGroups orders groups newest first, breaking ties by group id.
func SortGroups(groups []MeasureGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Date != groups[j].Date {
			return groups[i].Date > groups[j].Date
		}
		return groups[i].GroupID > groups[j].GroupID
	})
}

// UsersBody mirrors user/getbyuserid and account/getuserslist.
type UsersBody struct {
	Users []User `json:"users"`
}

// User describes a Withings account member.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	ShortName string `json:"shortname"`
	Gender    int    `json:"gender"`
	FatMethod int    `json:"fatmethod"`
	Birthdate int64  `json:"birthdate"`
	IsPublic  int    `json:"ispublic"`
	PublicKey string `json:"publickey"`
}

// Name returns the display name.
func (u User) Name() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.ShortName
	}
}

// Birthday returns the birth date, or zero when unknown.
func (u User) Birthday() time.Time {
	if u.Birthdate == 0 {
		return time.Time{}
	}
	return time.Unix(u.Birthdate, 0)
}

// GenderLabel returns "male", "female" or "".
func (u User) GenderLabel() string {
	switch u.Gender {
	case 0:
		return "male"
	case 1:
		return "female"
	default:
		return ""
	}
}
