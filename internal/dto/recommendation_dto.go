package dto

type RecommendationRequest struct {
	Query              string `json:"query" validate:"required"`
	ProfileContext     string `json:"profile_context"`
	NumRecommendations int    `json:"num_recommendations" validate:"omitempty,min=1,max=50"`
}

type RecommendedArticleResponse struct {
	Id              string   `json:"id"`
	Title           string   `json:"title,omitempty"`
	Url             string   `json:"url,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	PublishedAt     string   `json:"published_at,omitempty"`
	SimilarityScore float64  `json:"similarity_score"`
	ImageUrl        string   `json:"image_url,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Upvotes         int      `json:"upvotes"`
	Downvotes       int      `json:"downvotes"`
}

type RecommendationResponse struct {
	Success           bool                         `json:"success"`
	ErrorMessage      string                       `json:"error_message,omitempty"`
	UserQueryKeywords []string                     `json:"user_query_keywords"`
	RecommendedNews   []RecommendedArticleResponse `json:"recommended_news"`
	Cached            bool                         `json:"cached"`
}
