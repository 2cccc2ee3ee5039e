package service

import (
	"context"
	"log"
	"time"

	"Mod_Community/internal/model"
	"Mod_Community/internal/repository/mysql"
)

type Sender func(ctx context.Context, ob *model.FederationOutbox) error

// FederationRelayer 联邦事件投递器
// 轮询 outbox 表，把本地已提交的转移事件推给其他实例；失败只记重试，不影响本地数据
type FederationRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewFederationRelayer(sender Sender) *FederationRelayer {
	return &FederationRelayer{
		repo:      &mysql.OutboxRepository{DB: mysql.DB},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run 启动投递循环
func (r *FederationRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 从数据库读取待投递事件，逐条交给sender
func (r *FederationRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("federation outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			if err := r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				log.Printf("federation outbox retry mark err: %v", err)
			}
			continue
		}
		if err := r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			log.Printf("federation outbox success mark err: %v", err)
		}
	}
}
