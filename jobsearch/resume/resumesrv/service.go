package resumesrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jobradar/radar/internal/resumeparser"
	"github.com/jobradar/radar/internal/textract"
	"github.com/jobradar/radar/jobsearch/resume"
	"github.com/jobradar/radar/pkg/fsx"
	"github.com/jobradar/radar/pkg/kernel"
	"github.com/jobradar/radar/pkg/logx"
)

// Service owns the resume pipeline: fetch the stored file, extract its
// text, run the heuristic parser, persist the structured result.
type Service struct {
	repo       resume.Repository
	fileReader fsx.FileReader
}

func NewService(repo resume.Repository, fileReader fsx.FileReader) *Service {
	return &Service{
		repo:       repo,
		fileReader: fileReader,
	}
}

// ParseAndCreateResume registers an uploaded file and runs the parse
// pipeline on it. Extraction and parsing never abort the operation: a
// file that yields garbage still produces a well-formed, mostly empty
// parse result.
func (s *Service) ParseAndCreateResume(ctx context.Context, req resume.ParseResumeRequest) (*resume.ParseResumeResponse, error) {
	if req.UserID.IsEmpty() || req.FilePath == "" {
		return nil, resume.ErrInvalidResumeData().
			WithDetail("reason", "user_id and file_path are required")
	}

	fileData, err := s.fileReader.ReadFile(ctx, req.FilePath)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeFileReadFailed, err).
			WithDetail("file_path", req.FilePath)
	}

	parsed := s.runPipeline(ctx, req.FileName, fileData)

	now := time.Now()
	model := &resume.Resume{
		ID:         kernel.NewResumeID(uuid.New().String()),
		UserID:     req.UserID,
		FileName:   req.FileName,
		FileURL:    req.FilePath,
		FileType:   req.FileType,
		ParsedData: parsed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, model); err != nil {
		return nil, err
	}

	logx.Infof("Parsed resume %s for user %s: %d skills, %d experience entries",
		model.ID.String(), req.UserID.String(), len(parsed.Skills), len(parsed.Experience))

	return &resume.ParseResumeResponse{
		ResumeID:    model.ID,
		SkillsFound: len(parsed.Skills),
		Parsed:      parsed,
	}, nil
}

// ReparseResume re-runs the pipeline on an already registered resume,
// for example after the vocabulary changes.
func (s *Service) ReparseResume(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fileData, err := s.fileReader.ReadFile(ctx, model.FileURL)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeFileReadFailed, err).
			WithDetail("file_path", model.FileURL)
	}

	parsed := s.runPipeline(ctx, model.FileName, fileData)
	if err := s.repo.UpdateParsedData(ctx, id, parsed); err != nil {
		return nil, err
	}

	model.ParsedData = parsed
	return model, nil
}

// runPipeline is the fail-soft extract+parse step shared by create and
// reparse.
func (s *Service) runPipeline(ctx context.Context, fileName string, fileData []byte) *resume.ParsedData {
	text := textract.Extract(ctx, fileName, fileData)
	return toDomainParsed(resumeparser.Parse(text))
}

// GetResume retrieves a resume by ID.
func (s *Service) GetResume(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	return s.repo.GetByID(ctx, id)
}

// GetParsedResume retrieves a resume and requires its parse result to be
// present. The two failure modes stay distinguishable for callers.
func (s *Service) GetParsedResume(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsParsed() {
		return nil, resume.ErrResumeNotParsed().WithDetail("resume_id", id.String())
	}
	return model, nil
}

// ListResumes returns a user's resumes, newest first.
func (s *Service) ListResumes(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	return s.repo.ListByUserID(ctx, userID, pagination)
}

// DeleteResume removes a resume record.
func (s *Service) DeleteResume(ctx context.Context, id kernel.ResumeID) error {
	return s.repo.Delete(ctx, id)
}

func toDomainParsed(data *resumeparser.ResumeData) *resume.ParsedData {
	parsed := &resume.ParsedData{
		PersonalInfo: resume.PersonalInfo{
			Name:     data.PersonalInfo.Name,
			Email:    data.PersonalInfo.Email,
			Phone:    data.PersonalInfo.Phone,
			Location: data.PersonalInfo.Location,
		},
		Skills:     data.Skills,
		Experience: make([]resume.ExperienceEntry, 0, len(data.Experience)),
		Education:  make([]resume.EducationEntry, 0, len(data.Education)),
		FullText:   data.FullText,
		ParsedAt:   time.Now(),
	}
	if parsed.Skills == nil {
		parsed.Skills = []string{}
	}
	for _, exp := range data.Experience {
		parsed.Experience = append(parsed.Experience, resume.ExperienceEntry{
			Title:       exp.Title,
			Company:     exp.Company,
			Duration:    exp.Duration,
			Description: exp.Description,
		})
	}
	for _, edu := range data.Education {
		parsed.Education = append(parsed.Education, resume.EducationEntry{
			Degree:      edu.Degree,
			Institution: edu.Institution,
			Dates:       edu.Dates,
		})
	}
	return parsed
}
