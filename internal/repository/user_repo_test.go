package repository

import (
	"context"
	"testing"

	"store_rating/internal/model"
	"store_rating/internal/policy"
)

func TestUserRepo_GetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "erin", policy.RoleUser)

	u, err := repo.GetByEmail(ctx, "erin@example.com")
	if err != nil || u == nil {
		t.Fatalf("GetByEmail() = %v, %v", u, err)
	}
	if u.Role != policy.RoleUser {
		t.Errorf("role = %s, want user", u.Role)
	}

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("GetByEmail(missing) = %v, %v; want nil, nil", missing, err)
	}

	exists, _ := repo.ExistsByEmail(ctx, "erin@example.com")
	if !exists {
		t.Error("ExistsByEmail should be true")
	}
}

func TestUserRepo_ListFilterAndSort(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "zed", policy.RoleUser)
	seedUser(t, db, "amy", policy.RoleUser)
	seedUser(t, db, "owner", policy.RoleStoreOwner)

	users, total, err := repo.List(ctx, UserFilter{Role: policy.RoleUser, SortBy: "name", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("total = %d, len = %d, want 2", total, len(users))
	}
	if users[0].Name != "amy" {
		t.Errorf("first = %s, want amy", users[0].Name)
	}

	users, _, _ = repo.List(ctx, UserFilter{Email: "own"})
	if len(users) != 1 || users[0].Name != "owner" {
		t.Errorf("email filter = %+v", users)
	}

	// unknown sort keys fall back to id
	users, _, err = repo.List(ctx, UserFilter{SortBy: "password; DROP TABLE users", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if users[0].Name != "owner" {
		t.Errorf("first by id desc = %s, want owner", users[0].Name)
	}

	page, total, _ := repo.List(ctx, UserFilter{Page: 2, PageSize: 2})
	if total != 3 || len(page) != 1 {
		t.Errorf("page 2 len = %d total = %d", len(page), total)
	}
}

func TestUserRepo_UpdateKeepsEmailAndPassword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "fay", policy.RoleUser)
	u.Name = "Fay Updated"
	u.Email = "changed@example.com"
	u.Password = "changed"
	u.Role = policy.RoleStoreOwner
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var stored model.User
	db.First(&stored, u.ID)
	if stored.Name != "Fay Updated" || stored.Role != policy.RoleStoreOwner {
		t.Errorf("stored = %+v", stored)
	}
	if stored.Email != "fay@example.com" || stored.Password != "x" {
		t.Errorf("email/password must not change, got %s / %s", stored.Email, stored.Password)
	}

	if err := repo.UpdatePassword(ctx, u.ID, "hashed"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	db.First(&stored, u.ID)
	if stored.Password != "hashed" {
		t.Errorf("password = %s, want hashed", stored.Password)
	}
}

func TestStoreRepo_ListSearchAndOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "olga", policy.RoleStoreOwner)
	seedStore(t, db, "Green Grocer", &owner.ID)
	seedStore(t, db, "Blue Books", nil)

	stores, total, err := repo.List(ctx, StoreFilter{Search: "green"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || stores[0].Name != "Green Grocer" {
		t.Errorf("search result = %+v", stores)
	}

	owned, err := repo.ListByOwner(ctx, owner.ID)
	if err != nil || len(owned) != 1 {
		t.Errorf("ListByOwner() = %v, %v", owned, err)
	}

	n, _ := repo.Count(ctx)
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}
