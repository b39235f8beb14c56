package impl

import (
	"context"
	"strings"

	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/usecase"

	"github.com/samber/lo"
	"go.uber.org/fx"
)

type logService struct {
	logRepo repository.LogRepository
}

// LogServiceParams holds dependencies for LogService, injected by Fx.
type LogServiceParams struct {
	fx.In

	LogRepo repository.LogRepository
}

// NewLogService is the constructor for logService.
func NewLogService(params LogServiceParams) usecase.LogUsecase {
	return &logService{
		logRepo: params.LogRepo,
	}
}

// List reads the last Limit entries and filters them, so filters never reach
// further back than the limit.
func (s *logService) List(ctx context.Context, query *usecase.LogQuery) ([]*entity.LogEntry, error) {
	if query == nil {
		query = &usecase.LogQuery{}
	}

	limit := query.Limit
	if limit <= 0 {
		limit = usecase.DefaultLogLimit
	}

	entries, err := s.logRepo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))

	return lo.Filter(entries, func(e *entity.LogEntry, _ int) bool {
		if query.Type != "" && e.Type != query.Type {
			return false
		}

		return search == "" || strings.Contains(strings.ToLower(e.Message), search)
	}), nil
}
