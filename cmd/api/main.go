package main

import (
	"context"
	"encoding/json"

	"Mod_Community/internal/model"
	"Mod_Community/internal/pkg"
	"Mod_Community/internal/repository/mysql"
	"Mod_Community/internal/repository/redis"
	"Mod_Community/internal/router"
	"Mod_Community/internal/service"
)

func main() {
	dsn := "user:password@tcp(127.0.0.1:3306)/community?charset=utf8mb4&parseTime=True"
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init("127.0.0.1:6379", "", 0); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityModerator{},
		&model.ModTransferCommunity{},
		&model.FederationOutbox{},
	)

	// 联邦事件投递：本地提交后异步推给其他实例
	producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: []string{"127.0.0.1:9092"},
		Topic:   "community-federation",
	})
	if err != nil {
		panic(err)
	}
	defer producer.Close()

	relayer := service.NewFederationRelayer(func(ctx context.Context, ob *model.FederationOutbox) error {
		value, err := json.Marshal(ob)
		if err != nil {
			return err
		}
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.CommunityID), value)
	})
	go relayer.Run(context.Background())

	// Gin
	r := router.InitRouter()
	if err := r.Run(":8080"); err != nil {
		return
	}
}
