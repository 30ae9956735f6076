package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/pkg/recommend"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRecommendationCount = 15

type IRecommendationService interface {
	// GetRecommendations returns personalized news. Service outages degrade
	// to the fixed fallback payload instead of an error.
	GetRecommendations(ctx context.Context, userId uuid.UUID, req *dto.RecommendationRequest) (*dto.RecommendationResponse, error)
}

type recommendationService struct {
	recommender recommend.Recommender
	rdb         *redis.Client
	cacheTTL    time.Duration
	logger      logger.ILogger
}

func NewRecommendationService(
	recommender recommend.Recommender,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log logger.ILogger,
) IRecommendationService {
	return &recommendationService{
		recommender: recommender,
		rdb:         rdb,
		cacheTTL:    cacheTTL,
		logger:      log,
	}
}

func (c *recommendationService) GetRecommendations(ctx context.Context, userId uuid.UUID, req *dto.RecommendationRequest) (*dto.RecommendationResponse, error) {
	cacheKey := fmt.Sprintf("recommend:%s:%s", userId, req.Query)

	if cached := c.fromCache(ctx, cacheKey); cached != nil {
		cached.Cached = true
		return cached, nil
	}

	count := req.NumRecommendations
	if count == 0 {
		count = defaultRecommendationCount
	}
	var profileContext *string
	if req.ProfileContext != "" {
		profileContext = &req.ProfileContext
	}

	result, err := c.recommender.Recommend(ctx, recommend.Request{
		UserId:             userId,
		Query:              req.Query,
		ProfileContext:     profileContext,
		NumRecommendations: count,
	})
	if err != nil {
		c.logger.Warn("recommendation", "service unreachable, serving fallback", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		result = recommend.Fallback()
	}

	resp := recommendationToResponse(result)
	if result.Success {
		c.toCache(ctx, cacheKey, resp)
	}
	return resp, nil
}

func (c *recommendationService) fromCache(ctx context.Context, key string) *dto.RecommendationResponse {
	if c.rdb == nil {
		return nil
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var resp dto.RecommendationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

func (c *recommendationService) toCache(ctx context.Context, key string, resp *dto.RecommendationResponse) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		c.logger.Warn("recommendation", "failed to cache response", map[string]interface{}{"error": err.Error()})
	}
}

func recommendationToResponse(result *recommend.Response) *dto.RecommendationResponse {
	resp := &dto.RecommendationResponse{
		Success:           result.Success,
		ErrorMessage:      result.ErrorMessage,
		UserQueryKeywords: result.UserQueryKeywords,
		RecommendedNews:   make([]dto.RecommendedArticleResponse, 0, len(result.RecommendedNews)),
	}
	for _, article := range result.RecommendedNews {
		resp.RecommendedNews = append(resp.RecommendedNews, dto.RecommendedArticleResponse{
			Id:              article.Id,
			Title:           article.Title,
			Url:             article.Url,
			Summary:         article.Summary,
			PublishedAt:     article.PublishedAt,
			SimilarityScore: article.SimilarityScore,
			ImageUrl:        article.ImageUrl,
			Keywords:        article.Keywords,
			Upvotes:         article.Upvotes,
			Downvotes:       article.Downvotes,
		})
	}
	return resp
}
