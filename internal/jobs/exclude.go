package jobs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedJobs is the content of the exclude file: postings the user never wants to see again.
type ExcludedJobs struct {
	Items []*ExcludedJob
}

type ExcludedJob struct {
	URL        string
	Title      string
	Company    string
	ExcludedAt time.Time
}

func (v *Jobs) ToExcluded() *ExcludedJobs {
	excluded := &ExcludedJobs{}
	for _, job := range v.Items {
		excluded.Items = append(excluded.Items, &ExcludedJob{
			URL:        job.URL,
			Title:      job.Title,
			Company:    job.Company,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// ExcludedFromFile reads the exclude file. A missing or empty file gives an empty list.
func ExcludedFromFile(path string) (*ExcludedJobs, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ExcludedJobs{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedJobs{}, nil
	}

	var excluded ExcludedJobs
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (v *ExcludedJobs) Append(s *ExcludedJobs) {
	v.Items = append(v.Items, s.Items...)
}

func (v *ExcludedJobs) URLs() []string {
	urls := make([]string, 0, len(v.Items))
	for _, job := range v.Items {
		urls = append(urls, job.URL)
	}
	return urls
}

func (v *ExcludedJobs) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
