package assembly

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-vault/internal/selection"
	"github.com/jonathan/resume-vault/internal/types"
	"go.uber.org/zap"
)

// Sentinels pinned into the metadata of reproducible builds.
const (
	ReproducibleTimestamp = "1970-01-01T00:00:00Z"
	ReproducibleRevision  = "0000000"
	UnknownRevision       = "unknown"
	TimestampLayout       = "2006-01-02T15:04:05Z"
)

// Input is everything one context is assembled from.
type Input struct {
	Static       *Static
	Selection    *selection.Selection
	Manifest     *types.Manifest
	ManifestPath string
}

// Options controls build metadata. Clock, Revision and NewID default to the wall clock,
// the git revision of Root and a random UUID.
type Options struct {
	Reproducible bool
	Root         string
	Clock        func() time.Time
	Revision     func(root string) string
	NewID        func() uuid.UUID
	Logger       *zap.Logger
}

// Meta describes one build.
type Meta struct {
	Timestamp string `json:"timestamp"`
	Revision  string `json:"revision"`
	BuildID   string `json:"build_id"`
	Manifest  string `json:"manifest"`
	Template  string `json:"template"`
	Profile   string `json:"profile"`
}

type document struct {
	Profile    *types.Profile          `json:"profile"`
	Education  []types.EducationEntry  `json:"education"`
	Skills     map[string][]string     `json:"skills"`
	Experience []types.ExperienceEntry `json:"experience"`
	Projects   []types.ProjectEntry    `json:"projects"`
	Meta       Meta                    `json:"meta"`
}

// Context is the immutable rendering context. It holds only its canonical JSON encoding,
// so every view handed out is a fresh copy.
type Context struct {
	raw  []byte
	meta Meta
}

// Assemble converts the typed input into a Context.
func Assemble(in Input, opts Options) (*Context, error) {
	if in.Static == nil || in.Static.Profile == nil || in.Static.Education == nil || in.Static.Skills == nil {
		return nil, &Error{Message: "static data is incomplete"}
	}
	if in.Selection == nil || in.Manifest == nil {
		return nil, &Error{Message: "manifest content has not been resolved"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	meta := buildMeta(in, opts)
	doc := document{
		Profile:    in.Static.Profile,
		Education:  emptyIfNil(in.Static.Education.Entries),
		Skills:     SortedSkills(in.Static.Skills),
		Experience: emptyIfNil(in.Selection.Experience),
		Projects:   emptyIfNil(in.Selection.Projects),
		Meta:       meta,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &Error{Message: "failed to encode context", Cause: err}
	}

	logger.Debug("context assembled",
		zap.Int("experience", len(doc.Experience)),
		zap.Int("projects", len(doc.Projects)),
		zap.String("revision", meta.Revision),
		zap.Bool("reproducible", opts.Reproducible),
	)
	return &Context{raw: raw, meta: meta}, nil
}

func buildMeta(in Input, opts Options) Meta {
	meta := Meta{
		Manifest: in.ManifestPath,
		Template: in.Manifest.Template,
		Profile:  in.Manifest.Profile,
	}
	if meta.Manifest == "" {
		meta.Manifest = "unspecified"
	}
	if opts.Reproducible {
		meta.Timestamp = ReproducibleTimestamp
		meta.Revision = ReproducibleRevision
		meta.BuildID = uuid.Nil.String()
		return meta
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	revision := opts.Revision
	if revision == nil {
		revision = GitRevision
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.New
	}
	meta.Timestamp = clock().UTC().Format(TimestampLayout)
	meta.Revision = revision(opts.Root)
	meta.BuildID = newID().String()
	return meta
}

// GitRevision returns the short commit hash of the repository containing root, or
// "unknown" when git is unavailable or root is not a repository.
func GitRevision(root string) string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return UnknownRevision
	}
	rev := strings.TrimSpace(string(out))
	if rev == "" {
		return UnknownRevision
	}
	return rev
}

// SortedSkills returns every skill category sorted case-insensitively. Items that differ
// only by case keep a stable byte order.
func SortedSkills(s *types.Skills) map[string][]string {
	out := make(map[string][]string)
	for _, c := range s.Categories() {
		items := append([]string{}, c.Items...)
		sort.SliceStable(items, func(i, j int) bool {
			li, lj := strings.ToLower(items[i]), strings.ToLower(items[j])
			if li != lj {
				return li < lj
			}
			return items[i] < items[j]
		})
		out[c.Name] = items
	}
	return out
}

// Map returns a deep copy of the context as plain maps, slices and strings.
func (c *Context) Map() map[string]any {
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(c.raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		// raw was produced by json.Marshal
		panic(err)
	}
	return out
}

// Meta returns the build metadata.
func (c *Context) Meta() Meta { return c.meta }

// MarshalJSON returns the canonical encoding. Object keys of the skills map are sorted.
func (c *Context) MarshalJSON() ([]byte, error) {
	return append([]byte(nil), c.raw...), nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
