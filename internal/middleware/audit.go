package middleware

import (
	"context"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ==================== audit context ====================

type auditContextKey struct{}

// WithAuditUser records the acting account on ctx.
func WithAuditUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, auditContextKey{}, userID)
}

// AuditUserID returns the acting account, 0 when none.
func AuditUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(auditContextKey{}).(int64); ok {
		return id
	}
	return 0
}

// AuditContext copies the authenticated user id into the request context so
// the gorm callbacks can stamp created_by / updated_by.
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := GetUserID(c); userID > 0 {
			c.Request = c.Request.WithContext(WithAuditUser(c.Request.Context(), userID))
		}
		c.Next()
	}
}

// ==================== gorm callbacks ====================

// RegisterAuditCallbacks fills CreatedBy on insert (when unset) and UpdatedBy
// on every insert and update, for models embedding model.AuditMixin.
func RegisterAuditCallbacks(db *gorm.DB) error {
	err := db.Callback().Create().Before("gorm:create").Register("audit:create", func(tx *gorm.DB) {
		userID := auditUserFromStatement(tx)
		if userID == 0 {
			return
		}
		setAuditField(tx, "CreatedBy", userID, true)
		setAuditField(tx, "UpdatedBy", userID, true)
	})
	if err != nil {
		return err
	}

	return db.Callback().Update().Before("gorm:update").Register("audit:update", func(tx *gorm.DB) {
		userID := auditUserFromStatement(tx)
		if userID == 0 {
			return
		}
		setAuditField(tx, "UpdatedBy", userID, false)
	})
}

func auditUserFromStatement(tx *gorm.DB) int64 {
	if tx.Statement.Context == nil {
		return 0
	}
	return AuditUserID(tx.Statement.Context)
}

func setAuditField(tx *gorm.DB, fieldName string, value int64, onlyIfZero bool) {
	if tx.Statement.Schema == nil {
		return
	}

	field := tx.Statement.Schema.LookUpField(fieldName)
	if field == nil {
		return
	}

	ctx := tx.Statement.Context
	set := func(rv reflect.Value) {
		if onlyIfZero {
			if _, isZero := field.ValueOf(ctx, rv); !isZero {
				return
			}
		}
		_ = field.Set(ctx, rv, value)
	}

	switch tx.Statement.ReflectValue.Kind() {
	case reflect.Struct:
		set(tx.Statement.ReflectValue)
	case reflect.Slice, reflect.Array:
		for i := 0; i < tx.Statement.ReflectValue.Len(); i++ {
			set(tx.Statement.ReflectValue.Index(i))
		}
	}
}
