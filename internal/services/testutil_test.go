package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coursewagon/coursewagon-backend/internal/cache"
	"github.com/coursewagon/coursewagon-backend/internal/db"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/types"
	"github.com/coursewagon/coursewagon-backend/internal/utils"
)

// testEnv wires real repos over an in-memory sqlite database; only the LLM
// and storage edges are faked.
type testEnv struct {
	db    *gorm.DB
	log   *logger.Logger
	cache cache.Cache

	userRepo        repos.UserRepo
	userTokenRepo   repos.UserTokenRepo
	authTokenRepo   repos.AuthTokenRepo
	courseRepo      repos.CourseRepo
	subjectRepo     repos.SubjectRepo
	chapterRepo     repos.ChapterRepo
	topicRepo       repos.TopicRepo
	contentRepo     repos.ContentRepo
	enrollmentRepo  repos.EnrollmentRepo
	progressRepo    repos.LearningProgressRepo
	testimonialRepo repos.TestimonialRepo
	reviewRepo      repos.ReviewRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)

	// One named in-memory database per test; gorm pools connections, so an
	// anonymous :memory: DSN would hand each connection its own empty db.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return &testEnv{
		db:              gdb,
		log:             log,
		cache:           cache.NewMemory(),
		userRepo:        repos.NewUserRepo(gdb, log),
		userTokenRepo:   repos.NewUserTokenRepo(gdb, log),
		authTokenRepo:   repos.NewAuthTokenRepo(gdb, log),
		courseRepo:      repos.NewCourseRepo(gdb, log),
		subjectRepo:     repos.NewSubjectRepo(gdb, log),
		chapterRepo:     repos.NewChapterRepo(gdb, log),
		topicRepo:       repos.NewTopicRepo(gdb, log),
		contentRepo:     repos.NewContentRepo(gdb, log),
		enrollmentRepo:  repos.NewEnrollmentRepo(gdb, log),
		progressRepo:    repos.NewLearningProgressRepo(gdb, log),
		testimonialRepo: repos.NewTestimonialRepo(gdb, log),
		reviewRepo:      repos.NewReviewRepo(gdb, log),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *types.User {
	t.Helper()
	hash, err := utils.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hash,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), nil, user))
	return user
}

func (e *testEnv) createCourse(t *testing.T, owner *types.User, name string) *types.Course {
	t.Helper()
	course := &types.Course{
		ID:     uuid.New(),
		UserID: &owner.ID,
		Name:   name,
	}
	require.NoError(t, e.courseRepo.Create(context.Background(), nil, course))
	return course
}

// createTopicTree hangs count topics off a single subject/chapter chain under
// the course and returns them.
func (e *testEnv) createTopicTree(t *testing.T, courseID uuid.UUID, count int) []*types.Topic {
	t.Helper()
	ctx := context.Background()
	subject := &types.Subject{ID: uuid.New(), CourseID: courseID, Name: "Subject"}
	require.NoError(t, e.subjectRepo.CreateBatch(ctx, nil, []*types.Subject{subject}))
	chapter := &types.Chapter{ID: uuid.New(), SubjectID: subject.ID, Name: "Chapter"}
	require.NoError(t, e.chapterRepo.CreateBatch(ctx, nil, []*types.Chapter{chapter}))

	topics := make([]*types.Topic, 0, count)
	for i := 0; i < count; i++ {
		topics = append(topics, &types.Topic{
			ID:        uuid.New(),
			ChapterID: chapter.ID,
			Name:      "Topic",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond),
		})
	}
	require.NoError(t, e.topicRepo.CreateBatch(ctx, nil, topics))
	return topics
}
