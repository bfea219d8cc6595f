// Package file reads course data and keeps knowledge in local JSON files.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"drillbot/internal/domain"
	"drillbot/internal/repository"

	"github.com/go-playground/validator/v10"
)

// IndexFile is the course index stored next to the course files
const IndexFile = "index.json"

// CourseRepo implements repository.CourseRepository over a directory holding
// index.json and one "<from> to <to>.json" file per course.
// Loaded courses are cached.
type CourseRepo struct {
	dir      string
	validate *validator.Validate

	mu    sync.Mutex
	cache map[string]*domain.Course
}

// NewCourseRepo creates a course repository reading from dir
func NewCourseRepo(dir string) *CourseRepo {
	return &CourseRepo{
		dir:      dir,
		validate: validator.New(),
		cache:    make(map[string]*domain.Course),
	}
}

// List returns the courses of the index ordered by key
func (r *CourseRepo) List() ([]domain.CourseMeta, error) {
	index, err := r.readIndex()
	if err != nil {
		return nil, err
	}

	metas := make([]domain.CourseMeta, 0, len(index))
	for _, meta := range index {
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Key() < metas[j].Key()
	})
	return metas, nil
}

// Get loads and validates a course by key
func (r *CourseRepo) Get(key string) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[key]; ok {
		return c, nil
	}

	index, err := r.readIndex()
	if err != nil {
		return nil, err
	}
	if _, ok := index[key]; !ok {
		return nil, fmt.Errorf("%q: %w", key, repository.ErrCourseNotFound)
	}

	data, err := os.ReadFile(filepath.Join(r.dir, key+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read course %q: %w", key, err)
	}

	course := new(domain.Course)
	if err := json.Unmarshal(data, course); err != nil {
		return nil, fmt.Errorf("failed to decode course %q: %w", key, err)
	}
	if err := r.check(course); err != nil {
		return nil, fmt.Errorf("invalid course %q: %w", key, err)
	}
	if course.Key() != key {
		return nil, fmt.Errorf("course file %q holds %q", key, course.Key())
	}

	r.cache[key] = course
	return course, nil
}

func (r *CourseRepo) readIndex() (map[string]domain.CourseMeta, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read course index: %w", err)
	}

	var index map[string]domain.CourseMeta
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to decode course index: %w", err)
	}
	return index, nil
}

func (r *CourseRepo) check(course *domain.Course) error {
	if err := r.validate.Struct(course); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", e.Namespace(), e.Tag()))
		}
		return errors.New(strings.Join(msgs, ", "))
	}

	for _, lang := range []string{course.From, course.To} {
		if len(course.Sentences[lang]) == 0 {
			return fmt.Errorf("no sentences for %s", lang)
		}
	}
	return nil
}
