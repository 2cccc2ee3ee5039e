package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Mod_Community/internal/model"
	"Mod_Community/internal/pkg"
	"Mod_Community/internal/repository/mysql"
	"Mod_Community/internal/repository/redis"

	"gorm.io/gorm"
)

type transferLock interface {
	Acquire(ctx context.Context, communityID uint64, token string) (bool, error)
	Release(ctx context.Context, communityID uint64, token string) error
}

type communityViews interface {
	GetCommunityView(ctx context.Context, communityID uint64) (*CommunityResponse, error)
}

// TransferService 社区所有权转移编排
// 授权 -> 重排 -> 整体重建名单 -> 写审计 -> 写联邦outbox，全部落在一个事务里
type TransferService struct {
	store model.TransferStore
	views communityViews
	lock  transferLock
}

func NewTransferService() *TransferService {
	return &TransferService{
		store: &mysql.TransferStore{DB: mysql.DB},
		views: NewCommunityService(),
		lock:  &redis.TransferLock{RDB: redis.Client},
	}
}

// authorizeTransfer 放行条件：发起人是 rank0 版主，或在管理员集合里
func authorizeTransfer(requesterID, topModeratorID uint64, adminIDs []uint64) bool {
	if requesterID == topModeratorID {
		return true
	}
	for _, id := range adminIDs {
		if id == requesterID {
			return true
		}
	}
	return false
}

// reorderModerators 把目标提到 rank0，其余成员相对次序不变
// 目标不在名单里返回 ErrTargetNotModerator，不做自动补位
func reorderModerators(order []uint64, targetID uint64) ([]uint64, error) {
	idx := -1
	for i, id := range order {
		if id == targetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrTargetNotModerator
	}
	out := make([]uint64, 0, len(order))
	out = append(out, targetID)
	out = append(out, order[:idx]...)
	out = append(out, order[idx+1:]...)
	return out, nil
}

// Transfer 把社区所有权转给另一位现任版主，返回提交后的社区视图
func (s *TransferService) Transfer(ctx context.Context, requesterID, communityID, targetPersonID uint64) (*CommunityResponse, error) {
	if requesterID == 0 || communityID == 0 || targetPersonID == 0 {
		return nil, errors.New("invalid id")
	}

	// redis 锁只挡住热点并发，正确性由事务内行锁兜底
	token, err := pkg.RandDigits(16)
	if err != nil {
		return nil, err
	}
	got, err := s.lock.Acquire(ctx, communityID, token)
	if err != nil {
		return nil, err
	}
	if !got {
		return nil, ErrTransferBusy
	}
	defer func() { _ = s.lock.Release(ctx, communityID, token) }()

	err = s.store.InTransaction(ctx, func(tx model.TransferTx) error {
		// 行锁持有到提交，并发转移同一社区在这里排队
		if _, err := tx.LockCommunity(communityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommunityNotFound
			}
			return err
		}

		mods, err := tx.ListModerators(communityID)
		if err != nil {
			return err
		}
		// 空名单没有 rank0，无从转移
		if len(mods) == 0 {
			return ErrRosterEmpty
		}

		admins, err := tx.AdminIDs()
		if err != nil {
			return err
		}
		if !authorizeTransfer(requesterID, mods[0].PersonID, admins) {
			return ErrNotAuthorized
		}

		order := make([]uint64, len(mods))
		for i := range mods {
			order[i] = mods[i].PersonID
		}
		newOrder, err := reorderModerators(order, targetPersonID)
		if err != nil {
			return err
		}

		if err := tx.ReplaceModerators(communityID, newOrder); err != nil {
			// 重插撞唯一键说明名单被并发改写过，当内部错误抛出并回滚
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateModerator
			}
			return err
		}

		if err := tx.AppendTransferLog(&model.ModTransferCommunity{
			ModPersonID:   requesterID,
			OtherPersonID: targetPersonID,
			CommunityID:   communityID,
			Removed:       false,
		}); err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]any{
			"event_time":   time.Now().UTC().Format(time.RFC3339Nano),
			"community_id": communityID,
			"actor":        requesterID,
			"subject":      targetPersonID,
		})
		return tx.EnqueueFederation(&model.FederationOutbox{
			EventType:   "transfer_community",
			CommunityID: communityID,
			ActorID:     requesterID,
			SubjectID:   targetPersonID,
			Payload:     string(payload),
		})
	})
	if err != nil {
		return nil, err
	}

	// 已提交，回读失败不等于转移失败
	view, err := s.views.GetCommunityView(ctx, communityID)
	if err != nil {
		return nil, ErrReadAfterCommit
	}
	return view, nil
}
