package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeFmt   = "2006-01-02 15:04:05"
)

type reportService struct {
	repo   repositories.Repository
	users  UserService
	logger *slog.Logger
	now    func() time.Time
}

func NewReportService(repo repositories.Repository, users UserService, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// ExportStudents writes the professor's student roster to a workbook.
func (s *reportService) ExportStudents(ctx context.Context, actor *models.User) (*ExportFile, error) {
	students, err := s.users.ListStudents(ctx, actor)
	if err != nil {
		return nil, err
	}

	headers := []interface{}{"ID", "Name", "Student ID", "Average (/20)", "Evaluated Exams", "SWOT Completed"}
	rows := make([][]interface{}, 0, len(students))
	for _, st := range students {
		var average interface{} = ""
		if st.Average != nil {
			average = *st.Average
		}
		rows = append(rows, []interface{}{st.ID, st.Name, st.StudentID, average, st.ExamCount, yesNo(st.HasSWOT)})
	}

	data, err := writeWorkbook("Students", headers, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student roster exported", "professor_id", actor.ID, "rows", len(rows))
	return &ExportFile{
		Filename:    fmt.Sprintf("students_%s.xlsx", s.now().Format("20060102")),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}

// ExportResults writes every session of one exam to a workbook. Only the
// exam's professor may export it.
func (s *reportService) ExportResults(ctx context.Context, actor *models.User, examID uint) (*ExportFile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, nil, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if !canSeeExam(actor, exam) {
		return nil, ErrExamNotFound
	}
	if exam.ProfessorID != actor.ID {
		return nil, NewPermissionError(actor.ID, examID, "exam", "export_results", "not the exam owner")
	}

	sessions, err := s.repo.StudentExam().List(ctx, nil, repositories.StudentExamFilters{ExamID: &examID})
	if err != nil {
		return nil, fmt.Errorf("failed to get exam sessions: %w", err)
	}

	headers := []interface{}{"Student ID", "Student Name", "Status", "Started At", "Submitted At", "Score", "Total Marks"}
	rows := make([][]interface{}, 0, len(sessions))
	for _, session := range sessions {
		studentID := "-"
		if session.Student.StudentID != nil {
			studentID = *session.Student.StudentID
		}
		var score interface{} = ""
		if session.Score != nil {
			score = *session.Score
		}
		rows = append(rows, []interface{}{
			studentID,
			session.Student.DisplayName(),
			string(session.Status),
			formatTime(session.StartedAt),
			formatTime(session.SubmittedAt),
			score,
			exam.TotalMarks,
		})
	}

	data, err := writeWorkbook("Results", headers, rows)
	if err != nil {
		return nil, err
	}

	if err := recordAudit(ctx, s.repo, nil, actor, auditEntry{
		EventType:   models.AuditDataExported,
		ExamID:      examID,
		Description: "Exam results exported",
		Changes:     map[string]interface{}{"rows": len(rows)},
	}); err != nil {
		s.logger.Warn("Failed to record export", "exam_id", examID, "error", err)
	}

	s.logger.Info("Exam results exported", "exam_id", examID, "rows", len(rows))
	return &ExportFile{
		Filename:    fmt.Sprintf("exam_%d_results.xlsx", examID),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}

// writeWorkbook renders one sheet with a header row followed by rows.
func writeWorkbook(sheetName string, headers []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeFmt)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
