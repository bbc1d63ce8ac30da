package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database/testutil"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rpupo63/foodgram-backend/storage"
	"gorm.io/gorm"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	gdb    *gorm.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, gdb := testutil.Database(t)
	store := storage.NewLocalStore(t.TempDir(), "/media/")
	c := map[string]string{
		"JWT_SECRET":       "test-secret",
		"PAGE_SIZE":        "2",
		"ACCEPTED_ORIGINS": "http://localhost:3000",
	}
	return &testAPI{
		t:      t,
		router: newRouter(db, store, withConfig(c), withStartupTime(time.Now())),
		gdb:    gdb,
	}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) expect(rec *httptest.ResponseRecorder, status int) {
	a.t.Helper()
	if rec.Code != status {
		a.t.Fatalf("status: got %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
}

// register creates an account through the API and returns its id and token
func (a *testAPI) register(username string) (uuid.UUID, string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/users", "", services.RegisterInput{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "secret-password",
	})
	a.expect(rec, http.StatusCreated)
	user := decodeJSON[services.UserView](a.t, rec)

	rec = a.do(http.MethodPost, "/api/auth/token/login", "", loginRequest{
		Email:    username + "@example.com",
		Password: "secret-password",
	})
	a.expect(rec, http.StatusOK)
	return user.ID, decodeJSON[TokenResponse](a.t, rec).AuthToken
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v; body: %s", v, err, rec.Body.String())
	}
	return v
}

func TestRecipeLifecycle(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.register("ada")
	tag := testutil.CreateTag(t, a.gdb, "Dinner", "#8775D2", "dinner")
	salt := testutil.CreateIngredient(t, a.gdb, "salt", "g")

	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))
	rec := a.do(http.MethodPost, "/api/recipes", token, services.RecipeInput{
		Name:        "Soup",
		Text:        "Boil water.",
		Image:       image,
		CookingTime: 15,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []services.IngredientInput{{ID: salt.ID, Amount: 5}},
	})
	a.expect(rec, http.StatusCreated)
	recipe := decodeJSON[services.RecipeView](t, rec)
	if !strings.HasPrefix(recipe.Image, "/media/recipes/images/") || !strings.HasSuffix(recipe.Image, ".png") {
		t.Fatalf("image reference: %q", recipe.Image)
	}

	rec = a.do(http.MethodGet, recipe.Image, "", nil)
	a.expect(rec, http.StatusOK)
	if rec.Body.String() != "fake-png" {
		t.Fatalf("stored image: %q", rec.Body.String())
	}

	recipePath := "/api/recipes/" + recipe.ID.String()
	a.expect(a.do(http.MethodPost, recipePath+"/favorite", token, nil), http.StatusCreated)
	a.expect(a.do(http.MethodPost, recipePath+"/favorite", token, nil), http.StatusConflict)

	rec = a.do(http.MethodGet, recipePath, token, nil)
	a.expect(rec, http.StatusOK)
	if got := decodeJSON[services.RecipeView](t, rec); !got.IsFavorited || got.IsInShoppingCart {
		t.Fatalf("flags for author: %+v", got)
	}
	rec = a.do(http.MethodGet, recipePath, "", nil)
	a.expect(rec, http.StatusOK)
	if got := decodeJSON[services.RecipeView](t, rec); got.IsFavorited {
		t.Fatalf("anonymous viewer sees favorite flag")
	}

	a.expect(a.do(http.MethodGet, "/api/recipes/download_shopping_cart", token, nil), http.StatusBadRequest)
	a.expect(a.do(http.MethodPost, recipePath+"/shopping_cart", token, nil), http.StatusCreated)

	rec = a.do(http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	a.expect(rec, http.StatusOK)
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "ada_shopping_list.txt") {
		t.Fatalf("Content-Disposition: %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "- salt (g) - 5") {
		t.Fatalf("shopping list: %s", rec.Body.String())
	}

	cookingTime := 20
	rec = a.do(http.MethodPatch, recipePath, token, services.RecipePatch{CookingTime: &cookingTime})
	a.expect(rec, http.StatusOK)
	if got := decodeJSON[services.RecipeView](t, rec); got.CookingTime != 20 || len(got.Ingredients) != 1 {
		t.Fatalf("patched recipe: %+v", got)
	}

	a.expect(a.do(http.MethodDelete, recipePath, token, nil), http.StatusNoContent)
	a.expect(a.do(http.MethodGet, recipePath, token, nil), http.StatusNotFound)
	a.expect(a.do(http.MethodDelete, recipePath+"/favorite", token, nil), http.StatusNotFound)
}

func TestCreateRecipeValidationError(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.register("ada")
	salt := testutil.CreateIngredient(t, a.gdb, "salt", "g")

	rec := a.do(http.MethodPost, "/api/recipes", token, services.RecipeInput{
		Name:        "Soup",
		Text:        "Boil water.",
		Image:       "recipes/images/soup.png",
		CookingTime: 15,
		Ingredients: []services.IngredientInput{{ID: salt.ID, Amount: 5}},
	})
	a.expect(rec, http.StatusBadRequest)

	body := decodeJSON[ErrorResponse](t, rec)
	if body.Field != "tags" || len(body.Errors["tags"]) != 1 {
		t.Fatalf("error body: %+v", body)
	}
}

func TestRecipeWriteRequiresAuthor(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.register("guest")
	author := testutil.CreateUser(t, a.gdb, "chef")
	tag := testutil.CreateTag(t, a.gdb, "Dinner", "#8775D2", "dinner")
	salt := testutil.CreateIngredient(t, a.gdb, "salt", "g")
	recipe := testutil.CreateRecipe(t, a.gdb, author, "Soup", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 5})

	name := "Mine now"
	rec := a.do(http.MethodPatch, "/api/recipes/"+recipe.ID.String(), token, services.RecipePatch{Name: &name})
	a.expect(rec, http.StatusForbidden)
	a.expect(a.do(http.MethodDelete, "/api/recipes/"+recipe.ID.String(), token, nil), http.StatusForbidden)
}

func TestAuthentication(t *testing.T) {
	a := newTestAPI(t)
	userID, token := a.register("ada")

	a.expect(a.do(http.MethodGet, "/api/users/me", "", nil), http.StatusUnauthorized)
	a.expect(a.do(http.MethodPost, "/api/recipes", "", map[string]string{}), http.StatusUnauthorized)
	a.expect(a.do(http.MethodGet, "/api/recipes", "not-a-token", nil), http.StatusUnauthorized)

	rec := a.do(http.MethodGet, "/api/users/me", token, nil)
	a.expect(rec, http.StatusOK)
	if me := decodeJSON[services.UserView](t, rec); me.ID != userID || me.Username != "ada" {
		t.Fatalf("me: %+v", me)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	bearer := httptest.NewRecorder()
	a.router.ServeHTTP(bearer, req)
	a.expect(bearer, http.StatusOK)

	rec = a.do(http.MethodPost, "/api/auth/token/login", "", loginRequest{Email: "ada@example.com", Password: "wrong-password"})
	a.expect(rec, http.StatusBadRequest)

	a.expect(a.do(http.MethodPost, "/api/users/set_password", token, setPasswordRequest{
		CurrentPassword: "secret-password",
		NewPassword:     "another-password",
	}), http.StatusNoContent)
	a.expect(a.do(http.MethodPost, "/api/auth/token/logout", token, nil), http.StatusNoContent)
}

func TestRecipeListPagination(t *testing.T) {
	a := newTestAPI(t)
	author := testutil.CreateUser(t, a.gdb, "chef")
	breakfast := testutil.CreateTag(t, a.gdb, "Breakfast", "#E26C2D", "breakfast")
	dinner := testutil.CreateTag(t, a.gdb, "Dinner", "#8775D2", "dinner")
	salt := testutil.CreateIngredient(t, a.gdb, "salt", "g")
	for _, name := range []string{"Porridge", "Pancakes", "Toast"} {
		testutil.CreateRecipe(t, a.gdb, author, name, []*models.Tag{breakfast}, map[*models.Ingredient]int{salt: 1})
	}
	testutil.CreateRecipe(t, a.gdb, author, "Steak", []*models.Tag{dinner}, map[*models.Ingredient]int{salt: 1})

	rec := a.do(http.MethodGet, "/api/recipes?tags=breakfast", "", nil)
	a.expect(rec, http.StatusOK)
	first := decodeJSON[PageResponse[services.RecipeView]](t, rec)
	if first.Count != 3 || len(first.Results) != 2 || first.Previous != nil {
		t.Fatalf("first page: %+v", first)
	}
	if first.Next == nil || !strings.Contains(*first.Next, "page=2") || !strings.Contains(*first.Next, "tags=breakfast") {
		t.Fatalf("next link: %v", first.Next)
	}

	rec = a.do(http.MethodGet, "/api/recipes?tags=breakfast&page=2", "", nil)
	a.expect(rec, http.StatusOK)
	second := decodeJSON[PageResponse[services.RecipeView]](t, rec)
	if len(second.Results) != 1 || second.Next != nil || second.Previous == nil {
		t.Fatalf("second page: %+v", second)
	}

	rec = a.do(http.MethodGet, "/api/recipes?tags=breakfast&tags=dinner&limit=10", "", nil)
	a.expect(rec, http.StatusOK)
	if all := decodeJSON[PageResponse[services.RecipeView]](t, rec); all.Count != 4 || len(all.Results) != 4 {
		t.Fatalf("any-of tags: count %d", all.Count)
	}
}

func TestSubscriptionEndpoints(t *testing.T) {
	a := newTestAPI(t)
	selfID, token := a.register("reader")
	author := testutil.CreateUser(t, a.gdb, "chef")
	tag := testutil.CreateTag(t, a.gdb, "Dinner", "#8775D2", "dinner")
	salt := testutil.CreateIngredient(t, a.gdb, "salt", "g")
	testutil.CreateRecipe(t, a.gdb, author, "Soup", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 1})
	testutil.CreateRecipe(t, a.gdb, author, "Stew", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 1})

	subscribePath := "/api/users/" + author.ID.String() + "/subscribe"

	a.expect(a.do(http.MethodPost, "/api/users/"+selfID.String()+"/subscribe", token, nil), http.StatusBadRequest)
	a.expect(a.do(http.MethodPost, "/api/users/"+uuid.NewString()+"/subscribe", token, nil), http.StatusNotFound)

	rec := a.do(http.MethodPost, subscribePath+"?recipes_limit=1", token, nil)
	a.expect(rec, http.StatusCreated)
	view := decodeJSON[services.AuthorView](t, rec)
	if !view.IsSubscribed || view.RecipesCount != 2 || len(view.Recipes) != 1 {
		t.Fatalf("author view: %+v", view)
	}
	a.expect(a.do(http.MethodPost, subscribePath, token, nil), http.StatusConflict)

	rec = a.do(http.MethodGet, "/api/users/subscriptions", token, nil)
	a.expect(rec, http.StatusOK)
	if page := decodeJSON[PageResponse[services.AuthorView]](t, rec); page.Count != 1 || page.Results[0].ID != author.ID {
		t.Fatalf("subscriptions: %+v", page)
	}

	a.expect(a.do(http.MethodDelete, subscribePath, token, nil), http.StatusNoContent)
	a.expect(a.do(http.MethodDelete, subscribePath, token, nil), http.StatusNotFound)
	a.expect(a.do(http.MethodPost, subscribePath, token, nil), http.StatusCreated)
}

func TestCatalogEndpoints(t *testing.T) {
	a := newTestAPI(t)
	tag := testutil.CreateTag(t, a.gdb, "Dinner", "#8775D2", "dinner")
	testutil.CreateIngredient(t, a.gdb, "salt", "g")
	testutil.CreateIngredient(t, a.gdb, "sugar", "g")
	testutil.CreateIngredient(t, a.gdb, "pepper", "g")

	rec := a.do(http.MethodGet, "/api/ingredients?name=S", "", nil)
	a.expect(rec, http.StatusOK)
	if got := decodeJSON[[]models.Ingredient](t, rec); len(got) != 2 {
		t.Fatalf("ingredient search: %+v", got)
	}

	rec = a.do(http.MethodGet, "/api/tags/"+tag.ID.String(), "", nil)
	a.expect(rec, http.StatusOK)
	if got := decodeJSON[services.TagView](t, rec); got.Slug != "dinner" {
		t.Fatalf("tag: %+v", got)
	}

	a.expect(a.do(http.MethodGet, "/api/tags/not-a-uuid", "", nil), http.StatusBadRequest)
	a.expect(a.do(http.MethodGet, "/api/ingredients/"+uuid.NewString(), "", nil), http.StatusNotFound)
}
