// Package applications manages prepared application folders: one folder per
// posting with application_info.json, a tailored resume and a cover letter.
package applications

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spigell/jobhunter/internal/priority"
)

const (
	InfoFile = "application_info.json"

	StatusReady   = "Ready to Apply"
	StatusApplied = "Applied"

	KindResume      = "resume"
	KindCoverLetter = "cover_letter"
)

var (
	ErrNotFound    = errors.New("application not found")
	ErrInvalidKind = errors.New("invalid file type")
	ErrOutsideDir  = errors.New("folder is outside the applications directory")
)

// Info is the content of application_info.json.
type Info struct {
	BatchID       string   `json:"batch_id,omitempty"`
	PriorityScore *int     `json:"priority_score,omitempty"`
	Tier          string   `json:"tier,omitempty"`
	JobTitle      string   `json:"job_title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	URL           string   `json:"url"`
	Source        string   `json:"source"`
	SkillMatch    string   `json:"skill_match"`
	MatchedSkills []string `json:"matched_skills"`
	Status        string   `json:"status"`
	AppliedDate   string   `json:"applied_date,omitempty"`

	// Folder is set when listing, relative to the store directory.
	Folder string `json:"folder,omitempty"`
}

// Details is an application with its documents.
type Details struct {
	Info        Info   `json:"info"`
	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter"`
}

// Store reads application folders up to two levels below Dir, so both
// dir/<folder> and dir/<batch>/<folder> are found.
type Store struct {
	Dir    string
	scorer *priority.Scorer
}

func NewStore(dir string, scorer *priority.Scorer) *Store {
	if scorer == nil {
		scorer = priority.Default()
	}
	return &Store{Dir: dir, scorer: scorer}
}

// List returns every application sorted by priority score, highest first.
// A missing score is computed from the info. A missing directory gives an empty list.
func (s *Store) List() ([]Info, error) {
	infos := make([]Info, 0)

	root := filepath.Clean(s.Dir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		depth := strings.Count(filepath.ToSlash(rel), "/") + 1

		info, err := readInfo(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return err
		default:
			info.Folder = filepath.ToSlash(rel)
			if info.PriorityScore == nil {
				score := s.scorer.Score(info.posting())
				info.PriorityScore = &score
			}
			infos = append(infos, *info)
		}

		if depth >= 2 {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing applications in %s: %w", s.Dir, err)
	}

	slices.SortStableFunc(infos, func(a, b Info) int { return b.Score() - a.Score() })

	return infos, nil
}

// Details loads the info and documents of one folder.
func (s *Store) Details(folder string) (*Details, error) {
	path, err := s.resolve(folder)
	if err != nil {
		return nil, err
	}

	info, err := readInfo(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", folder, ErrNotFound)
		}
		return nil, err
	}

	details := &Details{Info: *info}
	for kind, dst := range map[string]*string{KindResume: &details.Resume, KindCoverLetter: &details.CoverLetter} {
		file, err := findDocument(path, kind)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		*dst = string(data)
	}

	return details, nil
}

// File returns the path of the resume or cover letter text in folder.
func (s *Store) File(folder, kind string) (string, error) {
	if kind != KindResume && kind != KindCoverLetter {
		return "", fmt.Errorf("%q: %w", kind, ErrInvalidKind)
	}

	path, err := s.resolve(folder)
	if err != nil {
		return "", err
	}

	return findDocument(path, kind)
}

// MarkApplied sets status Applied on the first application matching company
// and title. The timestamp is stored as given.
func (s *Store) MarkApplied(company, title, timestamp string) (*Info, error) {
	infos, err := s.List()
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		if info.Company != company || info.JobTitle != title {
			continue
		}

		path, err := s.resolve(info.Folder)
		if err != nil {
			return nil, err
		}

		stored, err := readInfo(path)
		if err != nil {
			return nil, err
		}
		stored.Status = StatusApplied
		stored.AppliedDate = timestamp

		if err := writeInfo(path, stored); err != nil {
			return nil, err
		}
		stored.Folder = info.Folder
		return stored, nil
	}

	return nil, fmt.Errorf("%s at %s: %w", title, company, ErrNotFound)
}

// resolve maps a slash separated folder to a directory inside the store.
func (s *Store) resolve(folder string) (string, error) {
	folder = strings.Trim(filepath.FromSlash(folder), string(filepath.Separator))
	if folder == "" {
		return "", fmt.Errorf("empty folder: %w", ErrNotFound)
	}

	root := filepath.Clean(s.Dir)
	path := filepath.Join(root, folder)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", folder, ErrOutsideDir)
	}

	stat, err := os.Stat(path)
	if err != nil || !stat.IsDir() {
		return "", fmt.Errorf("%s: %w", folder, ErrNotFound)
	}

	return path, nil
}

// Score returns the stored priority score or zero.
func (i Info) Score() int {
	if i.PriorityScore == nil {
		return 0
	}
	return *i.PriorityScore
}

func (i Info) posting() priority.Posting {
	return priority.Posting{Title: i.JobTitle, Company: i.Company, Location: i.Location, Source: i.Source}
}

func readInfo(folder string) (*Info, error) {
	data, err := os.ReadFile(filepath.Join(folder, InfoFile))
	if err != nil {
		return nil, err
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding %s in %s: %w", InfoFile, folder, err)
	}
	return &info, nil
}

func writeInfo(folder string, info *Info) error {
	stored := *info
	stored.Folder = ""

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(folder, InfoFile), data, 0o644)
}

// findDocument returns the first <kind>_*.txt file of folder in name order.
func findDocument(folder, kind string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, kind+"_") && strings.HasSuffix(name, ".txt") {
			return filepath.Join(folder, name), nil
		}
	}

	return "", fmt.Errorf("%s file in %s: %w", kind, filepath.Base(folder), ErrNotFound)
}
