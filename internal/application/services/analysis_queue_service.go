package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/domain/repositories"
	domainServices "ai-analysis-gateway/internal/domain/services"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// QueueStats 队列运行统计
type QueueStats struct {
	QueueLength   int   `json:"queue_length"`
	WorkerCount   int   `json:"worker_count"`
	PendingPosts  int64 `json:"pending_posts"`
	AnalyzedPosts int64 `json:"analyzed_posts"`
	SkippedPosts  int64 `json:"skipped_posts"`
}

// AnalysisQueueService 帖子分析队列服务接口
type AnalysisQueueService interface {
	// StartWorkers 启动工作进程与轮询循环
	StartWorkers(ctx context.Context, workerCount int) error

	// StopWorkers 停止工作进程
	StopWorkers() error

	// EnqueuePost 将帖子加入分析队列
	EnqueuePost(ctx context.Context, post *entities.Post) error

	// GetQueueStats 获取队列统计
	GetQueueStats(ctx context.Context) (*QueueStats, error)
}

// analysisQueueServiceImpl 帖子分析队列服务实现。
// 工作进程从channel取帖子逐条分析；批处理循环把库里积压的pending
// 帖子喂进队列；轮询循环从内容来源拉新帖子。两个循环都按配置开关
// 工作，开关热加载后下一个周期生效。
type analysisQueueServiceImpl struct {
	postRepo        repositories.PostRepository
	analysisService AnalysisService
	contentSource   domainServices.ContentSource
	cfg             *config.PipelineConfig
	logger          logger.Logger

	mu        sync.Mutex
	isRunning bool
	workers   []*analysisWorker
	workerWg  sync.WaitGroup
	postCh    chan *entities.Post
	stopCh    chan struct{}

	// 已入队但尚未处理完的帖子，避免批处理循环重复入队
	inflightMu sync.Mutex
	inflight   map[int64]struct{}

	lastSeenExternalID string
}

// analysisWorker 单个分析工作进程
type analysisWorker struct {
	id      int
	service *analysisQueueServiceImpl
	logger  logger.Logger
}

// NewAnalysisQueueService 创建分析队列服务。contentSource可为nil（轮询未接入）。
func NewAnalysisQueueService(
	postRepo repositories.PostRepository,
	analysisService AnalysisService,
	contentSource domainServices.ContentSource,
	cfg *config.PipelineConfig,
	log logger.Logger,
) AnalysisQueueService {
	return &analysisQueueServiceImpl{
		postRepo:        postRepo,
		analysisService: analysisService,
		contentSource:   contentSource,
		cfg:             cfg,
		logger:          log,
		postCh:          make(chan *entities.Post, cfg.ChannelSize),
		stopCh:          make(chan struct{}),
		inflight:        make(map[int64]struct{}),
	}
}

// StartWorkers 启动工作进程与轮询循环
func (s *analysisQueueServiceImpl) StartWorkers(ctx context.Context, workerCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("workers already running")
	}

	s.stopCh = make(chan struct{})
	s.workers = make([]*analysisWorker, workerCount)

	for i := 0; i < workerCount; i++ {
		worker := &analysisWorker{
			id:      i + 1,
			service: s,
			logger:  s.logger.WithField("worker_id", i+1),
		}
		s.workers[i] = worker

		s.workerWg.Add(1)
		go worker.run(ctx)
	}

	s.workerWg.Add(1)
	go s.batchLoop(ctx)

	s.workerWg.Add(1)
	go s.pollLoop(ctx)

	s.isRunning = true
	s.logger.WithField("worker_count", workerCount).Info("Analysis queue workers started")
	return nil
}

// StopWorkers 停止工作进程
func (s *analysisQueueServiceImpl) StopWorkers() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	close(s.stopCh)
	s.workerWg.Wait()

	s.isRunning = false
	s.workers = nil
	s.logger.Info("Analysis queue workers stopped")
	return nil
}

// EnqueuePost 将帖子加入分析队列
func (s *analysisQueueServiceImpl) EnqueuePost(ctx context.Context, post *entities.Post) error {
	if !s.markInflight(post.ID) {
		return nil
	}

	select {
	case s.postCh <- post:
		return nil
	case <-ctx.Done():
		s.clearInflight(post.ID)
		return ctx.Err()
	default:
		s.clearInflight(post.ID)
		return fmt.Errorf("analysis queue is full")
	}
}

// GetQueueStats 获取队列统计
func (s *analysisQueueServiceImpl) GetQueueStats(ctx context.Context) (*QueueStats, error) {
	pending, err := s.postRepo.CountByStatus(ctx, entities.PostStatusPending)
	if err != nil {
		return nil, err
	}
	analyzed, err := s.postRepo.CountByStatus(ctx, entities.PostStatusAnalyzed)
	if err != nil {
		return nil, err
	}
	skipped, err := s.postRepo.CountByStatus(ctx, entities.PostStatusSkipped)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	workerCount := len(s.workers)
	s.mu.Unlock()

	return &QueueStats{
		QueueLength:   len(s.postCh),
		WorkerCount:   workerCount,
		PendingPosts:  pending,
		AnalyzedPosts: analyzed,
		SkippedPosts:  skipped,
	}, nil
}

// batchLoop 批处理循环：把库里积压的pending帖子分批喂进队列
func (s *analysisQueueServiceImpl) batchLoop(ctx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !config.BatchEnabled() {
				continue
			}
			s.enqueuePendingBatch(ctx)
		}
	}
}

// enqueuePendingBatch 加载一批待分析帖子入队
func (s *analysisQueueServiceImpl) enqueuePendingBatch(ctx context.Context) {
	posts, err := s.postRepo.ListPending(ctx, s.cfg.ChannelSize/2)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to load pending posts")
		return
	}

	for i := range posts {
		if err := s.EnqueuePost(ctx, &posts[i]); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"post_id": posts[i].ID,
				"error":   err.Error(),
			}).Warn("Failed to enqueue pending post")
			return
		}
	}
}

// pollLoop 轮询循环：从内容来源拉取新帖子落库
func (s *analysisQueueServiceImpl) pollLoop(ctx context.Context) {
	defer s.workerWg.Done()

	if s.contentSource == nil {
		return
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !config.PollingEnabled() {
				continue
			}
			s.pollOnce(ctx)
		}
	}
}

// pollOnce 拉取一轮新帖子，已存在的跳过
func (s *analysisQueueServiceImpl) pollOnce(ctx context.Context) {
	posts, err := s.contentSource.FetchLatest(ctx, s.lastSeenExternalID, 50)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to fetch posts from content source")
		return
	}

	created := 0
	for i := range posts {
		post := &posts[i]
		if post.ExternalID == "" {
			post.ExternalID = uuid.NewString()
		}

		existing, err := s.postRepo.GetByExternalID(ctx, post.ExternalID)
		if err != nil {
			s.logger.WithField("error", err.Error()).Warn("Failed to check post existence")
			continue
		}
		if existing != nil {
			continue
		}

		post.Status = entities.PostStatusPending
		if err := s.postRepo.Create(ctx, post); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"external_id": post.ExternalID,
				"error":       err.Error(),
			}).Warn("Failed to store fetched post")
			continue
		}
		created++
		s.lastSeenExternalID = post.ExternalID
	}

	if created > 0 {
		s.logger.WithField("count", created).Info("Fetched new posts from content source")
	}
}

// markInflight 标记帖子在途，返回false表示已在队列中
func (s *analysisQueueServiceImpl) markInflight(postID int64) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, ok := s.inflight[postID]; ok {
		return false
	}
	s.inflight[postID] = struct{}{}
	return true
}

// clearInflight 清除在途标记
func (s *analysisQueueServiceImpl) clearInflight(postID int64) {
	s.inflightMu.Lock()
	delete(s.inflight, postID)
	s.inflightMu.Unlock()
}

// run 工作进程运行逻辑
func (w *analysisWorker) run(ctx context.Context) {
	defer w.service.workerWg.Done()

	for {
		select {
		case <-w.service.stopCh:
			return
		case <-ctx.Done():
			return
		case post := <-w.service.postCh:
			if post == nil {
				continue
			}

			w.logger.WithFields(map[string]interface{}{
				"post_id":    post.ID,
				"media_type": post.MediaType,
			}).Info("Analyzing post")

			if err := w.service.analysisService.AnalyzePost(ctx, post); err != nil {
				w.logger.WithFields(map[string]interface{}{
					"post_id": post.ID,
					"error":   err.Error(),
				}).Error("Post analysis failed")
			}
			w.service.clearInflight(post.ID)
		}
	}
}
