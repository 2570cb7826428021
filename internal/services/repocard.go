package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/repos"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

type RepoCardService interface {
	CreateFromURL(ctx context.Context, repoURL, tag string) (*types.RepoCard, error)
	Get(ctx context.Context, id uuid.UUID) (*types.RepoCard, error)
	ListAll(ctx context.Context) ([]*types.RepoCard, error)
	ListByTag(ctx context.Context, tag string) ([]*types.RepoCard, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repoCardService struct {
	db           *gorm.DB
	log          *logger.Logger
	repoCardRepo repos.RepoCardRepo
	httpClient   *http.Client
	apiBase      string
}

func NewRepoCardService(db *gorm.DB, baseLog *logger.Logger, repoCardRepo repos.RepoCardRepo) RepoCardService {
	return &repoCardService{
		db:           db,
		log:          baseLog.With("service", "RepoCardService"),
		repoCardRepo: repoCardRepo,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		apiBase:      "https://api.github.com",
	}
}

// githubRepo is the subset of the GitHub repository payload we snapshot.
type githubRepo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	OpenIssues  int      `json:"open_issues_count"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (s *repoCardService) CreateFromURL(ctx context.Context, repoURL, tag string) (*types.RepoCard, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return nil, apierr.Validation("repository url is required")
	}
	owner, repo, ok := parseGitHubURL(repoURL)
	if !ok {
		return nil, apierr.Validation("invalid GitHub repository url %q", repoURL)
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = "General"
	}

	gh, err := s.fetchRepo(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	topicsJSON, err := json.Marshal(gh.Topics)
	if err != nil {
		return nil, apierr.Store(err)
	}
	now := time.Now().UTC()
	card := &types.RepoCard{
		ID:          uuid.New(),
		Name:        gh.Name,
		Tag:         tag,
		FullName:    gh.FullName,
		Description: gh.Description,
		HTMLURL:     gh.HTMLURL,
		Stars:       gh.Stars,
		Forks:       gh.Forks,
		OpenIssues:  gh.OpenIssues,
		Language:    gh.Language,
		Owner:       gh.Owner.Login,
		Topics:      datatypes.JSON(topicsJSON),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repoCardRepo.Create(ctx, nil, card)
	if err != nil {
		s.log.Error("Failed to save repo card", "full_name", gh.FullName, "error", err)
		return nil, apierr.Store(err)
	}
	s.log.Info("Repo card saved", "full_name", created.FullName, "tag", created.Tag)
	return created, nil
}

func (s *repoCardService) fetchRepo(ctx context.Context, owner, repo string) (*githubRepo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", s.apiBase, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apierr.Upload(err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apierr.Upload(fmt.Errorf("fetch github repository: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, apierr.NotFound("github repository")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.Upload(fmt.Errorf("github api returned status %d", resp.StatusCode))
	}

	var gh githubRepo
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return nil, apierr.Upload(fmt.Errorf("decode github response: %w", err))
	}
	return &gh, nil
}

func parseGitHubURL(repoURL string) (owner, repo string, ok bool) {
	trimmed := strings.TrimPrefix(repoURL, "https://github.com/")
	trimmed = strings.TrimPrefix(trimmed, "http://github.com/")
	if trimmed == repoURL {
		return "", "", false
	}
	trimmed = strings.TrimSuffix(strings.TrimSuffix(trimmed, "/"), ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (s *repoCardService) Get(ctx context.Context, id uuid.UUID) (*types.RepoCard, error) {
	card, err := s.repoCardRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Store(err)
	}
	if card == nil {
		return nil, apierr.NotFound("repo card")
	}
	return card, nil
}

func (s *repoCardService) ListAll(ctx context.Context) ([]*types.RepoCard, error) {
	results, err := s.repoCardRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return results, nil
}

func (s *repoCardService) ListByTag(ctx context.Context, tag string) ([]*types.RepoCard, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, apierr.Validation("tag is required")
	}
	results, err := s.repoCardRepo.ListByTag(ctx, nil, tag)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return results, nil
}

func (s *repoCardService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repoCardRepo.DeleteByID(ctx, nil, id)
	if err != nil {
		return apierr.Store(err)
	}
	if !deleted {
		return apierr.NotFound("repo card")
	}
	return nil
}
