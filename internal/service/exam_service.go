package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/grading"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/export"
)

type examStore interface {
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	ListByClass(ctx context.Context, schoolCode, classCode string) ([]models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Participants(ctx context.Context, examID string) ([]models.ExamParticipant, error)
	UpsertParticipant(ctx context.Context, participant *models.ExamParticipant) error
}

type sheetRenderer interface {
	Render(sheet export.AnswerSheet) ([]byte, error)
}

// ExamService manages exams, participant answers, printable answer sheets
// and derived statistics.
type ExamService struct {
	repo               examStore
	roster             rosterSource
	sheets             sheetRenderer
	logger             *zap.Logger
	defaultChoiceCount int
}

// NewExamService constructs the service.
func NewExamService(repo examStore, roster rosterSource, sheets sheetRenderer, defaultChoiceCount int, logger *zap.Logger) *ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultChoiceCount <= 0 {
		defaultChoiceCount = 4
	}
	return &ExamService{
		repo:               repo,
		roster:             roster,
		sheets:             sheets,
		logger:             logger,
		defaultChoiceCount: defaultChoiceCount,
	}
}

// Create validates and persists a new exam.
func (s *ExamService) Create(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	choiceCount := req.ChoiceCount
	if choiceCount <= 0 {
		choiceCount = s.defaultChoiceCount
	}
	exam := &models.Exam{
		SchoolCode:    req.SchoolCode,
		Title:         req.Title,
		ClassCode:     req.ClassCode,
		CourseCode:    req.CourseCode,
		QuestionCount: req.QuestionCount,
		ChoiceCount:   choiceCount,
		Date:          date,
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return exam, nil
}

// List returns the exams of a class.
func (s *ExamService) List(ctx context.Context, schoolCode, classCode string) ([]models.Exam, error) {
	exams, err := s.repo.ListByClass(ctx, schoolCode, classCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	return exams, nil
}

// SubmitAnswers stores one participant's answers. When no explicit score is
// given it is derived from the answer key flags: score = correct/questions*20.
func (s *ExamService) SubmitAnswers(ctx context.Context, examID string, req dto.SubmitAnswersRequest) (*models.ExamParticipant, error) {
	exam, err := s.repo.FindByID(ctx, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	for _, answer := range req.Answers {
		if answer.Question < 1 || answer.Question > exam.QuestionCount {
			return nil, appErrors.Clone(appErrors.ErrValidation, "answer references a question outside the exam")
		}
		if answer.Choice < 0 || answer.Choice > exam.ChoiceCount {
			return nil, appErrors.Clone(appErrors.ErrValidation, "answer references a choice outside the sheet")
		}
	}

	participant := &models.ExamParticipant{
		ExamID:      examID,
		StudentCode: req.StudentCode,
		Answers:     req.Answers,
	}
	score := req.Score
	if score == nil {
		score = deriveScore(exam.QuestionCount, req.Answers)
	}
	if score != nil {
		now := time.Now().UTC()
		participant.Score = score
		participant.GradedAt = &now
	}
	if err := s.repo.UpsertParticipant(ctx, participant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store answers")
	}
	return participant, nil
}

// deriveScore maps correct-answer counts onto the 0..20 scale. Returns nil
// when no answer carries a key flag, meaning the sheet is not gradable yet.
func deriveScore(questionCount int, answers []models.QuestionAnswer) *float64 {
	if questionCount <= 0 {
		return nil
	}
	keyed := false
	correct := 0
	for _, a := range answers {
		if a.Correct == nil {
			continue
		}
		keyed = true
		if *a.Correct {
			correct++
		}
	}
	if !keyed {
		return nil
	}
	score := float64(correct) / float64(questionCount) * grading.MaxScore
	return &score
}

// AnswerSheets renders the printable bubble sheets for an exam. With an
// empty StudentCodes list the whole class roster gets a page.
func (s *ExamService) AnswerSheets(ctx context.Context, examID string, req dto.AnswerSheetRequest) ([]byte, error) {
	exam, err := s.repo.FindByID(ctx, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	roster, err := s.roster.ListByClass(ctx, exam.SchoolCode, exam.ClassCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}

	students := make([]export.AnswerSheetStudent, 0, len(roster))
	if len(req.StudentCodes) == 0 {
		for _, student := range roster {
			students = append(students, export.AnswerSheetStudent{StudentCode: student.StudentCode, FullName: student.FullName})
		}
	} else {
		byCode := make(map[string]models.Student, len(roster))
		for _, student := range roster {
			byCode[student.StudentCode] = student
		}
		for _, code := range req.StudentCodes {
			student, ok := byCode[code]
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, "student is not enrolled in the exam class")
			}
			students = append(students, export.AnswerSheetStudent{StudentCode: student.StudentCode, FullName: student.FullName})
		}
	}
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "class roster is empty")
	}

	payload, err := s.sheets.Render(export.AnswerSheet{
		ExamID:        exam.ID,
		Title:         exam.Title,
		ClassCode:     exam.ClassCode,
		QuestionCount: exam.QuestionCount,
		ChoiceCount:   exam.ChoiceCount,
		Students:      students,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render answer sheets")
	}
	return payload, nil
}

// Statistics computes distribution measures, the competition ranking and
// per-question outcomes over the graded participants.
func (s *ExamService) Statistics(ctx context.Context, examID string) (*models.ExamStatistics, error) {
	exam, err := s.repo.FindByID(ctx, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	participants, err := s.repo.Participants(ctx, examID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
	}

	stats := &models.ExamStatistics{
		ExamID:       exam.ID,
		Title:        exam.Title,
		Participants: len(participants),
	}

	var scores []float64
	scored := make([]grading.Scored, 0, len(participants))
	for _, p := range participants {
		if p.Score == nil {
			continue
		}
		scores = append(scores, *p.Score)
		scored = append(scored, grading.Scored{ID: p.StudentCode, Score: *p.Score})
	}
	stats.Graded = len(scores)
	if len(scores) > 0 {
		sort.Float64s(scores)
		min := scores[0]
		max := scores[len(scores)-1]
		sum := 0.0
		for _, v := range scores {
			sum += v
		}
		mean := sum / float64(len(scores))
		median := scores[len(scores)/2]
		if len(scores)%2 == 0 {
			median = (scores[len(scores)/2-1] + scores[len(scores)/2]) / 2
		}
		stats.Min = &min
		stats.Max = &max
		stats.Mean = &mean
		stats.Median = &median
	}

	for _, r := range grading.Rank(scored) {
		stats.Ranking = append(stats.Ranking, models.ParticipantRank{
			ParticipantID: r.ID,
			Score:         r.Score,
			Rank:          r.Rank,
		})
	}

	stats.Questions = questionStats(exam.QuestionCount, participants)
	return stats, nil
}

// questionStats tallies per-question outcomes. Difficulty is the share of
// participants answering correctly among those who saw the question.
func questionStats(questionCount int, participants []models.ExamParticipant) []models.QuestionStat {
	if questionCount <= 0 {
		return nil
	}
	stats := make([]models.QuestionStat, questionCount)
	for i := range stats {
		stats[i].Question = i + 1
	}
	answered := 0
	for _, p := range participants {
		if len(p.Answers) == 0 {
			continue
		}
		answered++
		seen := make(map[int]bool, len(p.Answers))
		for _, a := range p.Answers {
			if a.Question < 1 || a.Question > questionCount {
				continue
			}
			seen[a.Question] = true
			stat := &stats[a.Question-1]
			switch {
			case a.Choice == 0:
				stat.Unanswered++
			case a.Correct != nil && *a.Correct:
				stat.Correct++
			default:
				stat.Wrong++
			}
		}
		for q := 1; q <= questionCount; q++ {
			if !seen[q] {
				stats[q-1].Unanswered++
			}
		}
	}
	if answered > 0 {
		for i := range stats {
			stats[i].Difficulty = float64(stats[i].Correct) / float64(answered)
		}
	}
	return stats
}
