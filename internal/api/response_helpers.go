// internal/api/response_helpers.go
package api

import (
	"net/http"
	"time"

	apperrors "github.com/Corphon/ReviewForgeMCP/internal/errors"
	"github.com/gin-gonic/gin"
)

// APIResponse 标准API响应格式
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError 标准错误格式
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseHelper 响应助手类
type ResponseHelper struct{}

// NewResponseHelper 创建响应助手
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success 成功响应
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}

	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusOK, response)
}

// BadRequest 请求参数错误响应
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &APIResponse{
		Success:   false,
		Error:     &APIError{Code: "VALIDATION_ERROR", Message: message},
		Timestamp: time.Now(),
	})
}

// NotFound 资源不存在响应
func (rh *ResponseHelper) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &APIResponse{
		Success:   false,
		Error:     &APIError{Code: "NOT_FOUND", Message: message},
		Timestamp: time.Now(),
	})
}

// Error 按错误类型选择响应状态码
func (rh *ResponseHelper) Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "PROCESSING_ERROR"

	if apperrors.IsValidationError(err) {
		status = http.StatusBadRequest
		code = "VALIDATION_ERROR"
	} else if apperrors.IsNotFoundError(err) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
	}

	c.JSON(status, &APIResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: err.Error()},
		Timestamp: time.Now(),
	})
}
