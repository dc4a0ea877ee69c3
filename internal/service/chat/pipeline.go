package chat

import (
	"context"
	"sync"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/model/chat"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	"github.com/havenlabs/haven/backend/internal/service/crisis"
	"github.com/havenlabs/haven/backend/internal/service/recommend"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

// AnalysisResult is the complete, well-typed payload returned for every
// analyzed message. Fields are always populated; absence of insight shows
// up as empty lists, never missing fields.
type AnalysisResult struct {
	Message         chat.Message                 `json:"message"`
	Sentiment       sentiment.Result             `json:"sentiment"`
	Insights        summary.ConversationInsights `json:"insights"`
	Crisis          crisis.Assessment            `json:"crisis"`
	Recommendations []recommend.Recommendation   `json:"recommendations"`
}

// Pipeline runs the analysis stages for each new message: lexical scoring,
// then crisis assessment and insights in parallel over an immutable history
// snapshot, then recommendation ranking.
type Pipeline struct {
	chat      *Service
	assessor  *crisis.Assessor
	summaries *summary.Service
	ranker    *recommend.Ranker
}

// NewPipeline wires the pipeline to its services.
func NewPipeline(chatSvc *Service, assessor *crisis.Assessor, summaries *summary.Service, ranker *recommend.Ranker) *Pipeline {
	return &Pipeline{
		chat:      chatSvc,
		assessor:  assessor,
		summaries: summaries,
		ranker:    ranker,
	}
}

// AnalyzeMessage stores the message, annotates it, and computes the full
// analysis result. Only storage failures surface as errors; analysis
// sub-stages degrade to their components' safe defaults.
func (p *Pipeline) AnalyzeMessage(ctx context.Context, sessionID, sender, content string, prof profile.Profile) (AnalysisResult, error) {
	message, err := p.chat.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
	})
	if err != nil {
		return AnalysisResult{}, err
	}

	result := sentiment.Score(content)
	_ = p.chat.Annotate(ctx, sessionID, message.ID, &result)
	message.Sentiment = &result

	history, err := p.chat.LoadTranscript(ctx, sessionID)
	if err != nil {
		return AnalysisResult{}, err
	}

	analysis := p.Analyze(ctx, history, result, prof)
	analysis.Message = message
	return analysis, nil
}

// Analyze computes the analysis stages over an immutable history snapshot.
func (p *Pipeline) Analyze(ctx context.Context, history []chat.Message, latest sentiment.Result, prof profile.Profile) AnalysisResult {
	outline := p.summaries.Outline(history)

	var (
		wg         sync.WaitGroup
		assessment crisis.Assessment
		insights   summary.ConversationInsights
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		assessment = p.assessor.Assess(ctx, history, latest, outline.Overview)
	}()
	go func() {
		defer wg.Done()
		insights = p.summaries.Insights(history)
	}()
	wg.Wait()

	return AnalysisResult{
		Sentiment:       latest,
		Insights:        insights,
		Crisis:          assessment,
		Recommendations: p.ranker.Rank(outline, latest, prof),
	}
}

// Summarize exposes full-history summarization through the pipeline.
func (p *Pipeline) Summarize(ctx context.Context, sessionID string) (summary.Summary, error) {
	history, err := p.chat.LoadTranscript(ctx, sessionID)
	if err != nil {
		return summary.Summary{}, err
	}
	return p.summaries.Summarize(ctx, history), nil
}

// Insights computes bounded-window insights over the stored history.
func (p *Pipeline) Insights(ctx context.Context, sessionID string) (summary.ConversationInsights, error) {
	history, err := p.chat.LoadTranscript(ctx, sessionID)
	if err != nil {
		return summary.ConversationInsights{}, err
	}
	return p.summaries.Insights(history), nil
}

// AssessCrisis reruns the crisis assessment over the stored history.
func (p *Pipeline) AssessCrisis(ctx context.Context, sessionID string) (crisis.Assessment, error) {
	history, err := p.chat.LoadTranscript(ctx, sessionID)
	if err != nil {
		return crisis.Assessment{}, err
	}
	outline := p.summaries.Outline(history)
	return p.assessor.Assess(ctx, history, latestSentiment(history), outline.Overview), nil
}

// Recommend ranks recommendations for the stored history and profile.
func (p *Pipeline) Recommend(ctx context.Context, sessionID string, prof profile.Profile) ([]recommend.Recommendation, error) {
	history, err := p.chat.LoadTranscript(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	outline := p.summaries.Outline(history)
	return p.ranker.Rank(outline, latestSentiment(history), prof), nil
}

// latestSentiment picks the most recent user message's annotation, scoring
// it on the spot when the message was stored without one.
func latestSentiment(history []chat.Message) sentiment.Result {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Sender != "user" {
			continue
		}
		if history[i].Sentiment != nil {
			return *history[i].Sentiment
		}
		return sentiment.Score(history[i].Content)
	}
	return sentiment.Neutral()
}
