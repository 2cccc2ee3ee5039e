package service

import (
	"context"
	"errors"

	"Mod_Community/internal/model"
	"Mod_Community/internal/repository/mysql"

	"gorm.io/gorm"
)

// PersonView 对外只暴露安全字段
type PersonView struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type ModeratorView struct {
	Person PersonView `json:"person"`
	Rank   int        `json:"rank"`
}

// CommunityResponse 社区 + 版主名单的只读投影，转移提交后重算
type CommunityResponse struct {
	CommunityView       *model.Community `json:"community_view"`
	Moderators          []ModeratorView  `json:"moderators"`
	Online              int              `json:"online"`
	DiscussionLanguages []string         `json:"discussion_languages"`
	DefaultPostLanguage *string          `json:"default_post_language,omitempty"`
}

type CommunityService struct {
	repo     *mysql.CommunityRepository
	modRepo  *mysql.ModeratorRepository
	userRepo *mysql.UserRepository
	logRepo  *mysql.ModLogRepository
}

func NewCommunityService() *CommunityService {
	return &CommunityService{
		repo:     &mysql.CommunityRepository{DB: mysql.DB},
		modRepo:  &mysql.ModeratorRepository{DB: mysql.DB},
		userRepo: &mysql.UserRepository{DB: mysql.DB},
		logRepo:  &mysql.ModLogRepository{DB: mysql.DB},
	}
}

// GetCommunityView 读社区详情和按 rank 排好的版主名单
func (s *CommunityService) GetCommunityView(ctx context.Context, communityID uint64) (*CommunityResponse, error) {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}

	mods, err := s.modRepo.ListForCommunity(communityID)
	if err != nil {
		return nil, err
	}

	views := make([]ModeratorView, 0, len(mods))
	if len(mods) > 0 {
		ids := make([]uint64, len(mods))
		for i := range mods {
			ids[i] = mods[i].PersonID
		}
		users, err := s.userRepo.FindByIDs(ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uint64]model.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		for _, m := range mods {
			views = append(views, ModeratorView{
				Person: PersonView{ID: m.PersonID, Username: byID[m.PersonID].Username},
				Rank:   m.Rank,
			})
		}
	}

	return &CommunityResponse{
		CommunityView:       community,
		Moderators:          views,
		Online:              0, // 在线统计暂未接入
		DiscussionLanguages: []string{},
	}, nil
}

func (s *CommunityService) ListCommunities(page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.List(offset, size)
}

// ListTransferLog 社区的所有权转移审计记录
func (s *CommunityService) ListTransferLog(communityID uint64, page, size int) ([]model.ModTransferCommunity, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	if _, err := s.repo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}

	offset := (page - 1) * size
	return s.logRepo.ListForCommunity(communityID, offset, size)
}
