// Package inmem is the dev stub backend's store. Nothing here persists:
// the client never owns authoritative state, so the stub keeps everything
// in process memory and reseeds on start.
package inmem

import (
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/quiz"
	"github.com/llamalearn/llamalearn/core/user"
	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrNotEnrolled     = errors.New("not enrolled in this course")
)

// Account is a stored user plus credentials.
type Account struct {
	user.User
	PasswordHash []byte
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// CourseRecord is a stored course with its owner and answer keys. The key
// never leaves the store before submission.
type CourseRecord struct {
	course.Course
	OwnerID string
}

// QuizRecord holds a quiz with its server-side answer key.
type QuizRecord struct {
	quiz.Quiz
	Key map[string]string // question ID -> correct choice ID
}

type Store struct {
	mu sync.RWMutex

	users       map[string]*Account
	courses     map[string]*CourseRecord
	quizzes     map[string]*QuizRecord
	enrollments map[string]map[string]bool            // user -> course set
	viewed      map[string]map[string]map[string]bool // user -> course -> section set
	idempotency map[string]string                     // creation key -> course ID

	pk int
}

func Open() *Store {
	return &Store{
		users:       make(map[string]*Account),
		courses:     make(map[string]*CourseRecord),
		quizzes:     make(map[string]*QuizRecord),
		enrollments: make(map[string]map[string]bool),
		viewed:      make(map[string]map[string]map[string]bool),
		idempotency: make(map[string]string),
	}
}

func (s *Store) nextID(prefix string) string {
	s.pk++
	return prefix + "-" + strconv.Itoa(s.pk)
}

// Users

func (s *Store) CreateUser(email, username, role, password string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.users {
		if acc.Email == email {
			return user.User{}, ErrEmailExists
		}
	}
	acc := &Account{User: user.User{
		ID:       s.nextID("u"),
		Username: username,
		Email:    email,
		Role:     role,
	}}
	if err := acc.SetPassword(password); err != nil {
		return user.User{}, err
	}
	s.users[acc.ID] = acc
	return acc.User, nil
}

func (s *Store) UserByID(id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if acc, ok := s.users[id]; ok {
		return acc.User, nil
	}
	return user.User{}, ErrNotFound
}

// Authenticate checks credentials and returns the account's user.
func (s *Store) Authenticate(email, password string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.users {
		if acc.Email == email {
			if err := acc.CheckPassword(password); err != nil {
				return user.User{}, ErrNotFound
			}
			return acc.User, nil
		}
	}
	return user.User{}, ErrNotFound
}

// Courses

func (s *Store) CreateCourse(ownerID string, crs course.Course, key *QuizRecord, idemKey string) course.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idemKey != "" {
		if existing, ok := s.idempotency[idemKey]; ok {
			return s.courses[existing].Course
		}
	}

	crs.ID = s.nextID("c")
	s.courses[crs.ID] = &CourseRecord{Course: crs, OwnerID: ownerID}
	if key != nil {
		key.CourseID = crs.ID
		if key.ID == "" {
			key.ID = s.nextID("q")
		}
		s.quizzes[key.ID] = key
	}
	if idemKey != "" {
		s.idempotency[idemKey] = crs.ID
	}
	return crs
}

func (s *Store) Courses() []course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]course.Course, 0, len(s.courses))
	for _, rec := range s.courses {
		out = append(out, rec.Course)
	}
	return out
}

func (s *Store) Course(id string) (course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.courses[id]; ok {
		return rec.Course, nil
	}
	return course.Course{}, ErrNotFound
}

func (s *Store) CourseOwner(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.courses[id]; ok {
		return rec.OwnerID, nil
	}
	return "", ErrNotFound
}

func (s *Store) CoursesByOwner(ownerID string) []course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []course.Course
	for _, rec := range s.courses {
		if rec.OwnerID == ownerID {
			out = append(out, rec.Course)
		}
	}
	return out
}

// Enrollment

func (s *Store) Enroll(userID, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[courseID]; !ok {
		return ErrNotFound
	}
	set, ok := s.enrollments[userID]
	if !ok {
		set = make(map[string]bool)
		s.enrollments[userID] = set
	}
	if set[courseID] {
		return ErrAlreadyEnrolled
	}
	set[courseID] = true
	return nil
}

func (s *Store) Enrolled(userID, courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrollments[userID][courseID]
}

func (s *Store) EnrolledCourses(userID string) []course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []course.Course
	for id := range s.enrollments[userID] {
		if rec, ok := s.courses[id]; ok {
			out = append(out, rec.Course)
		}
	}
	return out
}

func (s *Store) AvailableCourses(userID string) []course.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []course.Course
	for id, rec := range s.courses {
		if !s.enrollments[userID][id] {
			out = append(out, rec.Course)
		}
	}
	return out
}

func (s *Store) Students(courseID string) []course.StudentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []course.StudentEntry
	for userID, set := range s.enrollments {
		if set[courseID] {
			if acc, ok := s.users[userID]; ok {
				out = append(out, course.StudentEntry{
					User:    acc.User,
					Percent: s.progressLocked(userID, courseID).Percent,
				})
			}
		}
	}
	return out
}

// Progress

func (s *Store) MarkViewed(userID, courseID, sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byCourse, ok := s.viewed[userID]
	if !ok {
		byCourse = make(map[string]map[string]bool)
		s.viewed[userID] = byCourse
	}
	set, ok := byCourse[courseID]
	if !ok {
		set = make(map[string]bool)
		byCourse[courseID] = set
	}
	set[sectionID] = true
}

func (s *Store) Progress(userID, courseID string) (course.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.courses[courseID]; !ok {
		return course.Progress{}, ErrNotFound
	}
	return s.progressLocked(userID, courseID), nil
}

func (s *Store) progressLocked(userID, courseID string) course.Progress {
	rec := s.courses[courseID]
	seen := s.viewed[userID][courseID]

	prog := course.Progress{
		CourseID:      courseID,
		Viewed:        make(map[string]bool, len(rec.Sections)),
		SectionsTotal: len(rec.Sections),
	}
	for _, sec := range rec.Sections {
		prog.Viewed[sec.ID] = seen[sec.ID]
		if seen[sec.ID] {
			prog.SectionsViewed++
		}
	}
	if prog.SectionsTotal > 0 {
		prog.Percent = float64(prog.SectionsViewed) / float64(prog.SectionsTotal) * 100
	}
	return prog
}

// Quizzes

func (s *Store) QuizForSection(courseID, sectionID string) (quiz.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.quizzes {
		if rec.CourseID == courseID && (rec.SectionID == "" || rec.SectionID == sectionID) {
			return rec.Quiz, nil
		}
	}
	return quiz.Quiz{}, ErrNotFound
}

// Grade scores a submission against the stored answer key. Scoring never
// happens client side.
func (s *Store) Grade(quizID string, answers quiz.AnswerMap) (quiz.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.quizzes[quizID]
	if !ok {
		return quiz.Result{}, ErrNotFound
	}

	res := quiz.Result{QuizID: quizID}
	var correct int
	for _, q := range rec.Questions {
		chosen := answers[q.ID]
		right := rec.Key[q.ID]
		qr := quiz.QuestionResult{
			QuestionID: q.ID,
			Chosen:     chosen,
			Answer:     right,
			Correct:    chosen != "" && chosen == right,
		}
		if qr.Correct {
			correct++
		}
		res.Questions = append(res.Questions, qr)
	}
	if len(rec.Questions) > 0 {
		res.Score = float64(correct) / float64(len(rec.Questions)) * 100
	}
	return res, nil
}
