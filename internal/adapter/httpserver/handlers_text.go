package httpserver

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/keyphrase"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
)

func (s *Server) registerTextRoutes(csrfMiddleware echo.MiddlewareFunc) {
	s.echo.GET("/emotion", s.handleEmotionPage, csrfMiddleware)
	s.echo.POST("/emotion", s.handleEmotion, csrfMiddleware)
	s.echo.POST("/emotion/feedback", s.handleEmotionFeedback, csrfMiddleware)
	s.echo.GET("/keyphrases", s.handleKeyPhrasesPage, csrfMiddleware)
	s.echo.POST("/keyphrases", s.handleKeyPhrases, csrfMiddleware)
	s.echo.GET("/summarize", s.handleSummarizePage, csrfMiddleware)
	s.echo.POST("/summarize", s.handleSummarize, csrfMiddleware)
	s.echo.GET("/process", s.handleProcessPage, csrfMiddleware)
	s.echo.POST("/process", s.handleProcess, csrfMiddleware)
	s.echo.GET("/similarity", s.handleSimilarityPage, csrfMiddleware)
	s.echo.POST("/similarity", s.handleSimilarity, csrfMiddleware)
	s.echo.GET("/wordcloud", s.handleWordCloudPage, csrfMiddleware)
	s.echo.POST("/wordcloud", s.handleWordCloud, csrfMiddleware)
}

func (s *Server) handleEmotionPage(c echo.Context) error {
	return s.renderTemplate(c, "emotion.html", s.newPage(c, "Emotion Detection", "emotion"))
}

func (s *Server) handleEmotion(c echo.Context) error {
	p := s.newPage(c, "Emotion Detection", "emotion")
	p.keep(c, "text")

	res, err := s.app.Emotions(c.Request().Context(), c.FormValue("text"), p.Theme)
	if err == nil {
		p.Result = res
		p.Warnings = res.Warnings
	}
	return s.renderOutcome(c, "emotion.html", p, err)
}

func (s *Server) handleEmotionFeedback(c echo.Context) error {
	p := s.newPage(c, "Emotion Detection", "emotion")
	p.keep(c, "text", "rating", "comment")

	rating, err := formInt(c, "rating")
	if err != nil {
		return s.renderOutcome(c, "emotion.html", p, err)
	}

	err = s.app.SubmitAnalysisFeedback(c.Request().Context(), domain.AnalysisFeedback{
		Text:    c.FormValue("text"),
		Rating:  rating,
		Comment: c.FormValue("comment"),
	})
	if err == nil {
		p.Form["thanks"] = "Thank you for your feedback!"
	}
	return s.renderOutcome(c, "emotion.html", p, err)
}

func (s *Server) handleKeyPhrasesPage(c echo.Context) error {
	p := s.newPage(c, "Key Phrase Extraction", "keyphrases")
	p.Form["top_n"] = strconv.Itoa(keyphrase.DefaultTopN)
	return s.renderTemplate(c, "keyphrases.html", p)
}

func (s *Server) handleKeyPhrases(c echo.Context) error {
	p := s.newPage(c, "Key Phrase Extraction", "keyphrases")
	p.keep(c, "text", "top_n")

	topN := keyphrase.DefaultTopN
	if strings.TrimSpace(c.FormValue("top_n")) != "" {
		n, err := formInt(c, "top_n")
		if err != nil {
			return s.renderOutcome(c, "keyphrases.html", p, err)
		}
		topN = n
	}

	res, err := s.app.KeyPhrases(c.Request().Context(), c.FormValue("text"), topN)
	if err == nil {
		p.Result = res
		p.Warnings = res.Warnings
	}
	return s.renderOutcome(c, "keyphrases.html", p, err)
}

func (s *Server) handleSummarizePage(c echo.Context) error {
	return s.renderTemplate(c, "summarize.html", s.newPage(c, "Text Summarization", "summarize"))
}

func (s *Server) handleSummarize(c echo.Context) error {
	p := s.newPage(c, "Text Summarization", "summarize")
	p.keep(c, "text")

	res, err := s.app.Summarize(c.Request().Context(), c.FormValue("text"))
	if err == nil {
		p.Result = res
		p.Warnings = res.Warnings
	}
	return s.renderOutcome(c, "summarize.html", p, err)
}

func (s *Server) handleProcessPage(c echo.Context) error {
	p := s.newPage(c, "Text Processing", "process")
	p.Form["remove_stopwords"] = "on"
	return s.renderTemplate(c, "process.html", p)
}

func (s *Server) handleProcess(c echo.Context) error {
	p := s.newPage(c, "Text Processing", "process")
	p.keep(c, "text", "remove_stopwords", "stem")

	opts := textproc.Options{
		RemoveStopWords: c.FormValue("remove_stopwords") != "",
		Stem:            c.FormValue("stem") != "",
	}
	res, err := s.app.Process(c.Request().Context(), c.FormValue("text"), opts)
	if err == nil {
		p.Result = res
	}
	return s.renderOutcome(c, "process.html", p, err)
}

func (s *Server) handleSimilarityPage(c echo.Context) error {
	return s.renderTemplate(c, "similarity.html", s.newPage(c, "Text Similarity", "similarity"))
}

func (s *Server) handleSimilarity(c echo.Context) error {
	p := s.newPage(c, "Text Similarity", "similarity")
	p.keep(c, "text1", "text2")

	res, err := s.app.Similarity(c.Request().Context(), c.FormValue("text1"), c.FormValue("text2"))
	if err == nil {
		p.Result = res
		p.Warnings = res.Warnings
	}
	return s.renderOutcome(c, "similarity.html", p, err)
}

func (s *Server) handleWordCloudPage(c echo.Context) error {
	return s.renderTemplate(c, "wordcloud.html", s.newPage(c, "Word Cloud", "wordcloud"))
}

func (s *Server) handleWordCloud(c echo.Context) error {
	p := s.newPage(c, "Word Cloud", "wordcloud")
	p.keep(c, "text")

	res, err := s.app.WordCloud(c.Request().Context(), c.FormValue("text"), p.Theme)
	if err == nil {
		p.Result = res
	}
	return s.renderOutcome(c, "wordcloud.html", p, err)
}

func formInt(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(c.FormValue(name)))
	if err != nil {
		return 0, apperrors.ValidationError("Please correct the highlighted fields").WithField(name, "must be a whole number")
	}
	return n, nil
}
