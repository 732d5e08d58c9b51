package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	infraredis "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/timer"
	"trivia-quiz-service/internal/trivia"

	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const providerCategories = `{"trivia_categories":[{"id":18,"name":"Science: Computers"}]}`

const providerQuestions = `{"response_code":0,"results":[
 {"category":"Science%3A%20Computers","type":"boolean","difficulty":"easy","question":"HTML%20is%20a%20programming%20language.","correct_answer":"False","incorrect_answers":["True"]},
 {"category":"Science%3A%20Computers","type":"multiple","difficulty":"easy","question":"What%20does%20%22RAM%22%20stand%20for%3F","correct_answer":"Random%20Access%20Memory","incorrect_answers":["Read%20Access%20Memory","Rapid%20Access%20Memory","Run%20Access%20Memory"]}
]}`

func TestQuizEndToEndWithRedis(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()
	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	var categoryCalls atomic.Int32
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api_category.php":
			categoryCalls.Add(1)
			_, _ = w.Write([]byte(providerCategories))
		case "/api.php":
			_, _ = w.Write([]byte(providerQuestions))
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()

	newSource := func() *trivia.Source {
		client := trivia.NewClient(provider.URL, "QuizApp/1.0", 5*time.Second)
		return trivia.NewSource(client, infraredis.NewCategoryCache(redisClient, time.Hour, nil))
	}

	// two instances share the category slot through Redis
	if got := newSource().FetchCategories(ctx); len(got) != 1 || got[0].ID != 18 {
		t.Fatalf("unexpected categories %+v", got)
	}
	if got := newSource().FetchCategories(ctx); len(got) != 1 {
		t.Fatalf("unexpected categories %+v", got)
	}
	if n := categoryCalls.Load(); n != 1 {
		t.Fatalf("expected one provider call across instances, got %d", n)
	}

	sched := timer.NewManualScheduler()
	store := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(store, newSource(), app.ServiceConfig{
		DurationSeconds: 300,
		Amount:          2,
		Scheduler:       sched,
	}, nil)

	session, err := service.Start(ctx, 18, "easy")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	key := "quiz:session:" + session.ID()
	if status, err := redisClient.Get(ctx, key).Result(); err != nil || status != string(domain.StatusInProgress) {
		t.Fatalf("expected liveness key, got %q (%v)", status, err)
	}

	questions := session.Questions()
	if questions[1].Text != `What does "RAM" stand for?` {
		t.Fatalf("question not decoded: %q", questions[1].Text)
	}
	for _, q := range questions {
		if _, applied, err := service.SubmitAnswer(session.ID(), q.CorrectAnswer); err != nil || !applied {
			t.Fatalf("submit: applied=%v err=%v", applied, err)
		}
		sched.Tick(10)
		if _, _, err := service.Advance(session.ID()); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	result, ok := session.Result()
	if !ok || result.Percentage != 100 || result.TimeTakenSeconds != 20 || result.Expired {
		t.Fatalf("unexpected result %+v", result)
	}

	if err := service.Close(session.ID()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if n, _ := redisClient.Exists(ctx, key).Result(); n != 0 {
		t.Fatal("liveness key must be removed on close")
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
