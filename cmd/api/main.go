package main

import (
	"context"
	"os/signal"
	"syscall"

	"Seva_Community/internal/config"
	"Seva_Community/internal/handler"
	"Seva_Community/internal/model"
	"Seva_Community/internal/pkg"
	"Seva_Community/internal/repository"
	"Seva_Community/internal/repository/mysql"
	"Seva_Community/internal/repository/redis"
	"Seva_Community/internal/router"
	"Seva_Community/internal/service"
)

func main() {
	cfg := config.Load()
	log := pkg.NewLogger(cfg.LogLevel, cfg.LogFormat)

	// 懒连接下 InitDB 只因 DSN 不合法失败；主存储宕机不会走到这里，
	// 由每次查询降级到兜底副本
	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatal().Err(err).Msg("invalid mysql dsn")
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatal().Err(err).Msg("redis init failed")
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）；主存储此刻不可达也不致命，兜底副本先顶住
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Application{},
		&model.Member{},
		&model.Task{},
		&model.Event{},
		&model.EventRegistration{},
		&model.Donation{},
		&model.ActivityOutbox{},
	); err != nil {
		log.Warn().Err(err).Msg("auto migrate failed, serving from fallback store until mysql recovers")
	}

	tokens := &pkg.TokenIssuer{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
	}

	// 双后端仓储
	userRepo := repository.NewUserRepository(&mysql.UserRepository{DB: mysql.DB}, log)
	communityRepo := repository.NewCommunityRepository(&mysql.CommunityRepository{DB: mysql.DB}, log)
	applicationRepo := repository.NewApplicationRepository(&mysql.ApplicationRepository{DB: mysql.DB}, log)
	memberRepo := repository.NewMemberRepository(&mysql.MemberRepository{DB: mysql.DB}, log)

	// 仅主存储的仓储
	taskRepo := &mysql.TaskRepository{DB: mysql.DB}
	eventRepo := &mysql.EventRepository{DB: mysql.DB}
	regRepo := &mysql.EventRegistrationRepository{DB: mysql.DB}
	donationRepo := &mysql.DonationRepository{DB: mysql.DB}
	outboxRepo := &mysql.OutboxRepository{DB: mysql.DB}

	// 服务层
	emailSvc := service.NewEmailService(cfg.SMTP)
	userSvc := service.NewUserService(userRepo, tokens, emailSvc)
	communitySvc := service.NewCommunityService(communityRepo, memberRepo)
	membershipSvc := service.NewMembershipService(applicationRepo, memberRepo, communityRepo, outboxRepo, log)
	taskSvc := service.NewTaskService(taskRepo, communityRepo)
	eventSvc := service.NewEventService(eventRepo, regRepo, communityRepo)
	donationSvc := service.NewDonationService(donationRepo, communityRepo, outboxRepo, log)
	broadcastSvc := service.NewBroadcastService(memberRepo, communityRepo, outboxRepo, cfg.SMTP, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// outbox 投递器：配置了 broker 走 kafka（单条投递失败由重试机制兜底），
	// 未配置则降级打日志
	sender := service.LogSender(log)
	if len(cfg.KafkaBrokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		sender = service.KafkaSender(producer)
	} else {
		log.Warn().Msg("kafka brokers not configured, outbox events will be logged only")
	}
	relayer := service.NewOutboxRelayer(outboxRepo, sender, log)
	go relayer.Run(ctx)

	// Gin
	r := router.InitRouter(router.Handlers{
		User:       handler.NewUserHandler(userSvc),
		Email:      handler.NewEmailHandler(emailSvc),
		Community:  handler.NewCommunityHandler(communitySvc, userSvc),
		Membership: handler.NewMembershipHandler(membershipSvc),
		Task:       handler.NewTaskHandler(taskSvc),
		Event:      handler.NewEventHandler(eventSvc),
		Donation:   handler.NewDonationHandler(donationSvc),
		Broadcast:  handler.NewBroadcastHandler(broadcastSvc),
	}, tokens)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("starting api server")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
