package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeDuplicateKey = 409
	CodeValidation   = 422
	CodeServerError  = 500
)

// ========== 业务哨兵错误 ==========

var (
	// ErrNotFound 记录不存在或不属于当前租户（两种情况统一返回，避免探测他租户数据）
	ErrNotFound = errors.New("记录不存在")
	// ErrForbidden 记录存在但当前租户无权操作（如修改默认字段）
	ErrForbidden = errors.New("无权操作该记录")
	// ErrDuplicateKey 字段key在(车辆类型, 租户)内重复
	ErrDuplicateKey = errors.New("字段key已存在")
	// ErrMalformedUpload 上传文件无法解析或缺少表头行
	ErrMalformedUpload = errors.New("上传文件格式错误")
)

// ========== 结构化校验错误 ==========

// FieldError 单个字段的校验错误
type FieldError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidationErrors 字段校验错误集合，始终携带完整的错误列表
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return fmt.Sprintf("字段校验失败: %s", strings.Join(msgs, "; "))
}

// AsValidationErrors 判断错误是否为校验错误集合
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
