package zanata

// Status values reported for projects and versions
const (
	StatusActive   = "ACTIVE"
	StatusReadOnly = "READONLY"
	StatusObsolete = "OBSOLETE"
)

// Scope selects which file kinds a transfer covers
type Scope string

const (
	ScopeSource Scope = "source"
	ScopeTrans  Scope = "trans"
	ScopeBoth   Scope = "both"
)

// ParseScope validates a scope name
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeSource, ScopeTrans, ScopeBoth:
		return Scope(s), true
	}
	return "", false
}

// IncludesSource reports whether the scope transfers templates
func (s Scope) IncludesSource() bool { return s == ScopeSource || s == ScopeBoth }

// IncludesTranslations reports whether the scope transfers translations
func (s Scope) IncludesTranslations() bool { return s == ScopeTrans || s == ScopeBoth }

// ProjectTypeGettext is the project type used for created versions and uploads
const ProjectTypeGettext = "gettext"

// Project is an entry of the project list
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DefaultType string `json:"defaultType,omitempty"`
	Status      string `json:"status"`
}

// Version is a project iteration
type Version struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ProjectType string `json:"projectType,omitempty"`
}

// ProjectInfo is the detailed view of one project
type ProjectInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DefaultType string    `json:"defaultType,omitempty"`
	Status      string    `json:"status"`
	Versions    []Version `json:"iterations"`
}

// LatestActiveVersion returns the last ACTIVE version in server order
func (p ProjectInfo) LatestActiveVersion() (Version, bool) {
	for i := len(p.Versions) - 1; i >= 0; i-- {
		if p.Versions[i].Status == StatusActive {
			return p.Versions[i], true
		}
	}
	return Version{}, false
}

// Locale is a locale configured for a version
type Locale struct {
	LocaleID    string `json:"localeId"`
	DisplayName string `json:"displayName"`
	NativeName  string `json:"nativeName,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// SourceDoc is a source document of a version
type SourceDoc struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Stat is one locale/unit statistics row
type Stat struct {
	Locale         string `json:"locale"`
	Unit           string `json:"unit"`
	Total          int    `json:"total"`
	Translated     int    `json:"translated"`
	NeedReview     int    `json:"needReview"`
	Untranslated   int    `json:"untranslated"`
	LastTranslated string `json:"lastTranslated,omitempty"`
}

// Percentage returns translated/total as a percentage
func (s Stat) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Translated) / float64(s.Total) * 100
}

// UnitWord is the stats unit counting words
const UnitWord = "WORD"

// DocStats holds the statistics of one document
type DocStats struct {
	ID    string `json:"id"`
	Stats []Stat `json:"stats"`
}

// Unit returns the rows for the given unit
func (d DocStats) Unit(unit string) []Stat {
	var out []Stat
	for _, s := range d.Stats {
		if s.Unit == unit {
			out = append(out, s)
		}
	}
	return out
}

// ItemType distinguishes pulled templates from translations
type ItemType string

const (
	ItemSource      ItemType = "pot"
	ItemTranslation ItemType = "po"
)

// PullItem is one file received during a pull
type PullItem struct {
	Type     ItemType
	Document string
	Locale   string
	Data     []byte
}

// FileName returns the staging file name for the item
func (i PullItem) FileName() string {
	if i.Type == ItemSource {
		return i.Document + ".pot"
	}
	return i.Locale + ".po"
}

// PullParams configures a pull
type PullParams struct {
	Project string
	Version string
	Scope   Scope
	Locales []string
	SrcDir  string
	DstDir  string
	Force   bool
}

// PullSummary is the terminal payload of a successful pull
type PullSummary struct {
	Documents    int `json:"documents"`
	Sources      int `json:"sources"`
	Translations int `json:"translations"`
	Skipped      int `json:"skipped"`
}

// PushParams configures a push
type PushParams struct {
	Project     string
	Version     string
	Scope       Scope
	Locales     []string
	SrcDir      string
	DstDir      string
	CopyTrans   bool
	ProjectType string
}

// PushSummary is the terminal payload of a successful push
type PushSummary struct {
	Documents    int `json:"documents"`
	Sources      int `json:"sources"`
	Translations int `json:"translations"`
}

// PullHandler receives each item before the next one is requested
type PullHandler func(PullItem) error
