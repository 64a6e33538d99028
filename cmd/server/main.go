package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"vidar/api/grpcserver"
	"vidar/api/pb"
	"vidar/domain/orderbook"
	"vidar/infra/kafka"
	"vidar/infra/outbox"
	"vidar/jobs/broadcaster"
	"vidar/service"
)

func main() {
	// optional .env for local runs
	_ = godotenv.Load()

	grpcAddr := envOr("VIDAR_GRPC_ADDR", ":50051")
	outboxDir := envOr("VIDAR_OUTBOX_DIR", "./outbox")
	brokers := envOr("VIDAR_KAFKA_BROKERS", "")
	tradeTopic := envOr("VIDAR_TRADE_TOPIC", "vidar.trades")
	depthTopic := envOr("VIDAR_DEPTH_TOPIC", "vidar.depth")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---------------- Outbox ----------------

	ob, err := outbox.Open(outboxDir)
	if err != nil {
		log.Fatalf("outbox init failed: %v", err)
	}
	defer ob.Close()

	// ---------------- Market data + broadcaster ----------------

	var feed service.DepthPublisher
	if brokers != "" {
		brokerList := strings.Split(brokers, ",")

		producer := kafka.NewProducer(brokerList, depthTopic)
		defer producer.Close()
		feed = producer

		bc, err := broadcaster.New(ob, brokerList, tradeTopic, 250*time.Millisecond)
		if err != nil {
			log.Fatalf("broadcaster init failed: %v", err)
		}
		defer bc.Close()
		bc.Start(ctx)
	} else {
		log.Println("[server] VIDAR_KAFKA_BROKERS unset; trade broadcast and depth feed disabled")
	}

	// ---------------- Domain + Service ----------------

	book := orderbook.New()
	svc := service.New(book, ob, feed, 20)

	// ---------------- gRPC ----------------

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("listen failed: %v", err)
	}

	grpcSrv := grpc.NewServer(grpc.ForceServerCodec(pb.Codec{}))
	pb.RegisterOrderServiceServer(grpcSrv, grpcserver.NewServer(svc))

	go func() {
		<-ctx.Done()
		grpcSrv.GracefulStop()
	}()

	log.Printf("[server] engine listening on %s", grpcAddr)
	if err := grpcSrv.Serve(lis); err != nil {
		log.Fatalf("gRPC server exited: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
