package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/contest-ranking-api/infrastructure/database/postgres"
	"github.com/vfg2006/contest-ranking-api/infrastructure/repository"
	"github.com/vfg2006/contest-ranking-api/internal/api"
	"github.com/vfg2006/contest-ranking-api/internal/broadcast"
	"github.com/vfg2006/contest-ranking-api/internal/config"
	"github.com/vfg2006/contest-ranking-api/internal/scheduler"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/authenticating"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/ranking"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/voting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	candidateRepo := repository.NewCandidateRepository(pgConn)
	paymentRepo := repository.NewPaymentRepository(pgConn)

	authenticator := authenticating.NewService(cfg)

	snapshotStore := ranking.NewSnapshotStore()
	rankingService := ranking.NewSnapshotRankingService(candidateRepo, snapshotStore, cfg)

	// O hub recebe os snapshots novos e o agendador recebe os pedidos de
	// recálculo dos observadores; a ligação cruzada acontece aqui
	recomputeService := scheduler.NewRankingRecomputeService(rankingService, nil, cfg)
	hub := broadcast.NewHub(rankingService, recomputeService)
	recomputeService.SetBroadcaster(hub)

	votingService := voting.NewService(candidateRepo, paymentRepo, recomputeService, cfg)

	go hub.Run(ctx)

	// Primeira passada síncrona para os observadores não começarem com um
	// snapshot vazio
	recomputeService.RunNow(ctx)

	if err := recomputeService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de recálculo do ranking")
	} else {
		logrus.Info("Agendador de recálculo do ranking iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		rankingService,
		votingService,
		authenticator,
		recomputeService,
		hub,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
