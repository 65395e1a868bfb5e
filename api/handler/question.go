package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/studyloop/backend/api/transport"
	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/pkg/httpcontext"
	questionUC "github.com/studyloop/backend/usecase/question"
)

type QuestionHandler struct {
	baseHandler
	uc *questionUC.UseCase
}

func NewQuestionHandler(uc *questionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List questions
// @Tags questions
// @Router /api/v1/questions [get]
func (h *QuestionHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	questions, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, questions)
}

// @Summary Question detail
// @Tags questions
// @Router /api/v1/questions/{id} [get]
func (h *QuestionHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	questionID := pathParam(ctx, "id")
	if questionID == "" {
		h.respondInvalid(ctx, "missing question id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	question, err := h.uc.Get(stdCtx, userID, questionID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, question)
}

// @Summary Create question (schedules its reviews)
// @Tags questions
// @Router /api/v1/questions [post]
func (h *QuestionHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	question, ok := h.parseQuestion(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, question)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update question
// @Tags questions
// @Router /api/v1/questions/{id} [put]
func (h *QuestionHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	questionID := pathParam(ctx, "id")
	if questionID == "" {
		h.respondInvalid(ctx, "missing question id")
		return
	}

	question, ok := h.parseQuestion(ctx, userID)
	if !ok {
		return
	}
	question.ID = questionID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, question)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete question and its review tasks
// @Tags questions
// @Router /api/v1/questions/{id} [delete]
func (h *QuestionHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	questionID := pathParam(ctx, "id")
	if questionID == "" {
		h.respondInvalid(ctx, "missing question id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, userID, questionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *QuestionHandler) parseQuestion(ctx *fasthttp.RequestCtx, userID string) (*domain.Question, bool) {
	var req transport.QuestionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	var categoryID *string
	if req.CategoryID != "" {
		categoryID = &req.CategoryID
	}

	return &domain.Question{
		UserID:      userID,
		CategoryID:  categoryID,
		Prompt:      req.Question,
		Answer:      req.Answer,
		Explanation: req.Explanation,
	}, true
}
