package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Key: "name", Message: "Name 为必填项"},
		{Key: "mileage", Message: "Mileage 必须是数字"},
	}

	msg := errs.Error()
	// 完整错误列表都要出现在消息里
	if !strings.Contains(msg, "Name 为必填项") || !strings.Contains(msg, "Mileage 必须是数字") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestAsValidationErrors(t *testing.T) {
	errs := ValidationErrors{{Key: "name", Message: "Name 为必填项"}}

	got, ok := AsValidationErrors(errs)
	if !ok || len(got) != 1 {
		t.Fatalf("expected direct match")
	}

	// 包装后仍可识别
	wrapped := fmt.Errorf("保存失败: %w", errs)
	got, ok = AsValidationErrors(wrapped)
	if !ok || got[0].Key != "name" {
		t.Fatalf("expected wrapped match, got %v %v", got, ok)
	}

	if _, ok := AsValidationErrors(fmt.Errorf("其他错误")); ok {
		t.Fatalf("expected non-validation error to not match")
	}
}
