package school

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"schooladmin/internal/apperr"
)

// ErrBadCredentials is returned for any failed login. Deliberately vague so
// callers cannot probe which part was wrong.
var ErrBadCredentials = errors.New("invalid credentials")

// Service owns the roster: accounts, branches, subjects, teachers, students
// and the referential-integrity rules between them.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ---- accounts ----

// RegisterAdmin creates a school account.
func (s *Service) RegisterAdmin(ctx context.Context, name, email, password, schoolName string) (Admin, error) {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if schoolName == "" {
		missing = append(missing, "schoolName")
	}
	if len(missing) > 0 {
		return Admin{}, apperr.Validation(missing...)
	}
	if _, err := s.repo.AdminByEmail(ctx, email); err == nil {
		return Admin{}, apperr.Conflict("email already registered", "")
	} else if !IsNoRows(err) {
		return Admin{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, err
	}
	return s.repo.InsertAdmin(ctx, Admin{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		SchoolName:   schoolName,
	})
}

// LoginAdmin verifies admin credentials.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (Admin, error) {
	a, err := s.repo.AdminByEmail(ctx, email)
	if err != nil {
		if IsNoRows(err) {
			return Admin{}, ErrBadCredentials
		}
		return Admin{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Admin{}, ErrBadCredentials
	}
	return a, nil
}

// AdminDetail returns one admin.
func (s *Service) AdminDetail(ctx context.Context, id string) (Admin, error) {
	a, err := s.repo.AdminByID(ctx, id)
	if IsNoRows(err) {
		return Admin{}, apperr.NotFound("admin", id)
	}
	return a, err
}

// RegisterTeacher creates a teacher account within a school.
func (s *Service) RegisterTeacher(ctx context.Context, t Teacher, password string) (Teacher, error) {
	var missing []string
	if t.Name == "" {
		missing = append(missing, "name")
	}
	if t.Email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if t.BranchID == "" {
		missing = append(missing, "branch")
	}
	if t.SchoolID == "" {
		missing = append(missing, "school")
	}
	if len(missing) > 0 {
		return Teacher{}, apperr.Validation(missing...)
	}
	if _, err := s.repo.TeacherByEmail(ctx, t.Email); err == nil {
		return Teacher{}, apperr.Conflict("email already registered", "")
	} else if !IsNoRows(err) {
		return Teacher{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Teacher{}, err
	}
	t.ID = uuid.NewString()
	t.PasswordHash = string(hash)
	created, err := s.repo.InsertTeacher(ctx, t)
	if err != nil {
		return Teacher{}, err
	}
	if created.SubjectID != "" {
		if err := s.repo.AssignSubject(ctx, created.ID, created.SubjectID); err != nil {
			return Teacher{}, err
		}
	}
	return created, nil
}

// LoginTeacher verifies teacher credentials.
func (s *Service) LoginTeacher(ctx context.Context, email, password string) (Teacher, error) {
	t, err := s.repo.TeacherByEmail(ctx, email)
	if err != nil {
		if IsNoRows(err) {
			return Teacher{}, ErrBadCredentials
		}
		return Teacher{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)) != nil {
		return Teacher{}, ErrBadCredentials
	}
	return t, nil
}

// RegisterStudent enrolls a student; roll numbers are unique per branch.
func (s *Service) RegisterStudent(ctx context.Context, st Student, password string) (Student, error) {
	var missing []string
	if st.Name == "" {
		missing = append(missing, "name")
	}
	if st.RollNum <= 0 {
		missing = append(missing, "rollNum")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if st.BranchID == "" {
		missing = append(missing, "branch")
	}
	if st.SchoolID == "" {
		missing = append(missing, "school")
	}
	if len(missing) > 0 {
		return Student{}, apperr.Validation(missing...)
	}
	taken, err := s.repo.RollTaken(ctx, st.BranchID, st.RollNum)
	if err != nil {
		return Student{}, err
	}
	if taken {
		return Student{}, apperr.Conflict("roll number already exists in this branch", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Student{}, err
	}
	st.ID = uuid.NewString()
	st.PasswordHash = string(hash)
	return s.repo.InsertStudent(ctx, st)
}

// LoginStudent verifies a student by school, roll number, name and password.
func (s *Service) LoginStudent(ctx context.Context, schoolID string, rollNum int, name, password string) (Student, error) {
	st, err := s.repo.StudentByRoll(ctx, schoolID, rollNum, name)
	if err != nil {
		if IsNoRows(err) {
			return Student{}, ErrBadCredentials
		}
		return Student{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(password)) != nil {
		return Student{}, ErrBadCredentials
	}
	return st, nil
}

// ---- branches ----

// CreateBranch rejects a duplicate branch+semester pair within the school.
func (s *Service) CreateBranch(ctx context.Context, name, semester, schoolID string) (Branch, error) {
	var missing []string
	if name == "" {
		missing = append(missing, "branch")
	}
	if semester == "" {
		missing = append(missing, "semester")
	}
	if schoolID == "" {
		missing = append(missing, "school")
	}
	if len(missing) > 0 {
		return Branch{}, apperr.Validation(missing...)
	}
	id, exists, err := s.repo.BranchExists(ctx, name, semester, schoolID)
	if err != nil {
		return Branch{}, err
	}
	if exists {
		return Branch{}, apperr.Conflict("branch and semester already exists", id)
	}
	return s.repo.InsertBranch(ctx, Branch{
		ID:       uuid.NewString(),
		Name:     name,
		Semester: semester,
		SchoolID: schoolID,
	})
}

func (s *Service) ListBranches(ctx context.Context, schoolID string) ([]Branch, error) {
	return s.repo.ListBranches(ctx, schoolID)
}

func (s *Service) BranchDetail(ctx context.Context, id string) (Branch, error) {
	b, err := s.repo.BranchByID(ctx, id)
	if IsNoRows(err) {
		return Branch{}, apperr.NotFound("branch", id)
	}
	return b, err
}

func (s *Service) BranchStudents(ctx context.Context, branchID string) ([]Student, error) {
	return s.repo.ListStudentsByBranch(ctx, branchID)
}

// DeleteBranch cascades the branch's students, teachers and subjects.
func (s *Service) DeleteBranch(ctx context.Context, id string) error {
	err := s.repo.DeleteBranchCascade(ctx, id)
	if IsNoRows(err) {
		return apperr.NotFound("branch", id)
	}
	return err
}

// DeleteBranches cascades every branch of a school.
func (s *Service) DeleteBranches(ctx context.Context, schoolID string) (int64, error) {
	return s.repo.DeleteBranchesBySchool(ctx, schoolID)
}

// ---- subjects ----

// CreateSubjects persists a batch of subjects for one branch.
func (s *Service) CreateSubjects(ctx context.Context, subjects []Subject) ([]Subject, error) {
	if len(subjects) == 0 {
		return nil, apperr.Validation("subjects")
	}
	for i := range subjects {
		var missing []string
		if subjects[i].Name == "" {
			missing = append(missing, "subName")
		}
		if subjects[i].Code == "" {
			missing = append(missing, "subCode")
		}
		if subjects[i].BranchID == "" {
			missing = append(missing, "branch")
		}
		if subjects[i].SchoolID == "" {
			missing = append(missing, "school")
		}
		if len(missing) > 0 {
			return nil, apperr.Validation(missing...)
		}
		subjects[i].ID = uuid.NewString()
	}
	if err := s.repo.InsertSubjects(ctx, subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *Service) ListSubjects(ctx context.Context, schoolID string) ([]Subject, error) {
	return s.repo.ListSubjectsBySchool(ctx, schoolID)
}

func (s *Service) BranchSubjects(ctx context.Context, branchID string) ([]Subject, error) {
	return s.repo.ListSubjectsByBranch(ctx, branchID)
}

func (s *Service) FreeSubjects(ctx context.Context, branchID string) ([]Subject, error) {
	return s.repo.FreeSubjectsByBranch(ctx, branchID)
}

func (s *Service) SubjectDetail(ctx context.Context, id string) (Subject, error) {
	sub, err := s.repo.SubjectByID(ctx, id)
	if IsNoRows(err) {
		return Subject{}, apperr.NotFound("subject", id)
	}
	return sub, err
}

func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	err := s.repo.DeleteSubjectCascade(ctx, id)
	if IsNoRows(err) {
		return apperr.NotFound("subject", id)
	}
	return err
}

func (s *Service) DeleteSubjects(ctx context.Context, schoolID string) (int64, error) {
	return s.repo.DeleteSubjectsBySchool(ctx, schoolID)
}

func (s *Service) DeleteBranchSubjects(ctx context.Context, branchID string) (int64, error) {
	return s.repo.DeleteSubjectsByBranch(ctx, branchID)
}

// ---- teachers ----

func (s *Service) ListTeachers(ctx context.Context, schoolID string) ([]Teacher, error) {
	return s.repo.ListTeachers(ctx, schoolID)
}

func (s *Service) TeacherDetail(ctx context.Context, id string) (Teacher, error) {
	t, err := s.repo.TeacherByID(ctx, id)
	if IsNoRows(err) {
		return Teacher{}, apperr.NotFound("teacher", id)
	}
	return t, err
}

// AssignTeacherSubject links teacher and subject both ways.
func (s *Service) AssignTeacherSubject(ctx context.Context, teacherID, subjectID string) error {
	if teacherID == "" || subjectID == "" {
		return apperr.Validation("teacher", "subject")
	}
	if _, err := s.TeacherDetail(ctx, teacherID); err != nil {
		return err
	}
	if _, err := s.SubjectDetail(ctx, subjectID); err != nil {
		return err
	}
	return s.repo.AssignSubject(ctx, teacherID, subjectID)
}

func (s *Service) DeleteTeacher(ctx context.Context, id string) error {
	err := s.repo.DeleteTeacherCascade(ctx, id)
	if IsNoRows(err) {
		return apperr.NotFound("teacher", id)
	}
	return err
}

func (s *Service) DeleteTeachers(ctx context.Context, schoolID string) (int64, error) {
	return s.repo.DeleteTeachersBySchool(ctx, schoolID)
}

func (s *Service) DeleteBranchTeachers(ctx context.Context, branchID string) (int64, error) {
	return s.repo.DeleteTeachersByBranch(ctx, branchID)
}

// ---- students ----

func (s *Service) ListStudents(ctx context.Context, schoolID string) ([]Student, error) {
	return s.repo.ListStudentsBySchool(ctx, schoolID)
}

func (s *Service) StudentDetail(ctx context.Context, id string) (Student, error) {
	st, err := s.repo.StudentByID(ctx, id)
	if IsNoRows(err) {
		return Student{}, apperr.NotFound("student", id)
	}
	return st, err
}

// UpdateStudent rewrites name, roll number and branch.
func (s *Service) UpdateStudent(ctx context.Context, st Student) error {
	err := s.repo.UpdateStudent(ctx, st)
	if IsNoRows(err) {
		return apperr.NotFound("student", st.ID)
	}
	return err
}

func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	err := s.repo.DeleteStudent(ctx, id)
	if IsNoRows(err) {
		return apperr.NotFound("student", id)
	}
	return err
}

func (s *Service) DeleteStudents(ctx context.Context, schoolID string) (int64, error) {
	return s.repo.DeleteStudentsBySchool(ctx, schoolID)
}

func (s *Service) DeleteBranchStudents(ctx context.Context, branchID string) (int64, error) {
	return s.repo.DeleteStudentsByBranch(ctx, branchID)
}

// UpsertExam records marks for one subject, replacing any previous marks.
func (s *Service) UpsertExam(ctx context.Context, studentID, subjectID string, marks int) ([]ExamResult, error) {
	if subjectID == "" {
		return nil, apperr.Validation("subject")
	}
	if _, err := s.StudentDetail(ctx, studentID); err != nil {
		return nil, err
	}
	results, err := s.repo.ExamResults(ctx, studentID)
	if err != nil {
		return nil, err
	}
	updated := UpsertExamResult(results, ExamResult{SubjectID: subjectID, Marks: marks})
	if err := s.repo.ReplaceExamResults(ctx, studentID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
