package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"restora/entity"
)

const (
	menuKey         = "restora_menu"
	reviewsKey      = "restora_reviews"
	reservationsKey = "restora_reservations"
	salesKey        = "restora_sales"
	usersKey        = "RestoraUsers"
)

// Options configure a Client. Zero values take the documented defaults;
// the render callbacks are optional.
type Options struct {
	BaseURL  string
	CacheDir string // empty means an in-memory cache
	Cache    Cache  // overrides CacheDir when set
	Logger   zerolog.Logger
	Grace    time.Duration
	Sync     SchedulerOptions
	Now      func() time.Time

	OnMenuRender         func([]entity.MenuItem)
	OnReviewsRender      func([]entity.Review)
	OnReservationsRender func([]entity.Reservation)
}

// Client is the device-side half of the system: every user action lands
// in the local cache first and appears on screen immediately; the remote
// store is updated in the background and its authoritative state is
// absorbed by the reconcilers on the next sync trigger.
type Client struct {
	api     *API
	cache   Cache
	log     zerolog.Logger
	session *Session
	now     func() time.Time

	menu         *Reconciler[entity.MenuItem]
	reviews      *Reconciler[entity.Review]
	reservations *Reconciler[entity.Reservation]
	sales        *Reconciler[entity.Sale]
	users        *Reconciler[entity.User]

	scheduler *Scheduler
	ownsCache bool
}

func New(opts Options) (*Client, error) {
	log := opts.Logger

	cache := opts.Cache
	ownsCache := false
	if cache == nil {
		bc, err := OpenCache(opts.CacheDir, log)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		cache = bc
		ownsCache = true
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Client{
		api:       NewAPI(opts.BaseURL, log),
		cache:     cache,
		log:       log,
		session:   NewSession(cache, log),
		now:       now,
		ownsCache: ownsCache,
	}

	c.menu = NewReconciler(c.api, cache, log, ReconcilerOptions[entity.MenuItem]{
		Kind:   menuKey,
		Path:   "/menu",
		Policy: ReplaceWithRemote,
		Grace:  opts.Grace,
		ID:     func(m entity.MenuItem) string { return m.ID },
		Token: func(m entity.MenuItem) string {
			return fmt.Sprintf("%s|%s|%g|%s", m.ID, m.Name, m.Price, m.Category)
		},
		Render: opts.OnMenuRender,
		Now:    now,
	})

	c.reviews = NewReconciler(c.api, cache, log, ReconcilerOptions[entity.Review]{
		Kind:      reviewsKey,
		Path:      "/reviews",
		Policy:    ReplaceWithRemote,
		Grace:     opts.Grace,
		ID:        func(r entity.Review) string { return r.ID },
		CreatedAt: func(r entity.Review) int64 { return r.Timestamp },
		Less:      func(a, b entity.Review) bool { return a.Timestamp > b.Timestamp },
		Render:    opts.OnReviewsRender,
		Now:       now,
	})

	c.reservations = NewReconciler(c.api, cache, log, ReconcilerOptions[entity.Reservation]{
		Kind:      reservationsKey,
		Path:      "/reservations",
		Policy:    ReplaceWithRemote,
		Grace:     opts.Grace,
		ID:        func(r entity.Reservation) string { return r.ID },
		CreatedAt: func(r entity.Reservation) int64 { return r.CreatedAt },
		Token:     func(r entity.Reservation) string { return r.ID + "|" + r.Status },
		Less:      func(a, b entity.Reservation) bool { return a.CreatedAt > b.CreatedAt },
		Render:    opts.OnReservationsRender,
		Now:       now,
	})

	c.sales = NewReconciler(c.api, cache, log, ReconcilerOptions[entity.Sale]{
		Kind:   salesKey,
		Path:   "/sales",
		Policy: WriteThrough,
		ID:     func(s entity.Sale) string { return s.ID },
		Now:    now,
	})

	c.users = NewReconciler(c.api, cache, log, ReconcilerOptions[entity.User]{
		Kind:   usersKey,
		Path:   "/users",
		Policy: WriteThrough,
		ID:     func(u entity.User) string { return u.ID },
		Now:    now,
	})

	c.scheduler = NewScheduler(c.syncTask, opts.Sync, log)
	return c, nil
}

// Start begins background syncing; Stop/Close end it.
func (c *Client) Start(ctx context.Context) { c.scheduler.Start(ctx) }

func (c *Client) Stop() { c.scheduler.Stop() }

func (c *Client) Close() error {
	c.Stop()
	if c.ownsCache {
		if bc, ok := c.cache.(*BadgerCache); ok {
			return bc.Close()
		}
	}
	return nil
}

// Visible and Focus forward the UI lifecycle events to the scheduler.
func (c *Client) Visible() { c.scheduler.Visible() }
func (c *Client) Focus()   { c.scheduler.Focus() }

// syncTask is the one task every trigger runs: reviews and menu on every
// trigger, reservations additionally after a mutation so an admin's
// status change shows up promptly.
func (c *Client) syncTask(ctx context.Context, trigger Trigger) {
	c.reviews.Sync(ctx)
	c.menu.Sync(ctx)
	if trigger == TriggerMutation {
		c.reservations.Sync(ctx)
	}
}

// --- menu ---

// Menu returns the cached menu immediately and refreshes it from the
// remote store in the background.
func (c *Client) Menu(ctx context.Context) []entity.MenuItem {
	items := c.menu.Local()
	go c.menu.Sync(ctx)
	return items
}

// SaveMenuItem creates or edits a dish: cache and UI first, remote in the
// background, authoritative re-read shortly after.
func (c *Client) SaveMenuItem(ctx context.Context, item entity.MenuItem) entity.MenuItem {
	isNew := true
	if item.ID == "" {
		item.ID = entity.NewID()
	} else {
		for _, existing := range c.menu.Local() {
			if existing.ID == item.ID {
				isNew = false
				break
			}
		}
	}
	c.menu.Upsert(item)

	go func() {
		if isNew {
			c.api.Post(context.WithoutCancel(ctx), "/menu", item, nil)
		} else {
			c.api.Put(context.WithoutCancel(ctx), "/menu?id="+url.QueryEscape(item.ID), item, nil)
		}
	}()
	c.scheduler.Mutated()
	return item
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) {
	c.menu.Delete(id)
	go c.api.Delete(context.WithoutCancel(ctx), "/menu?id="+url.QueryEscape(id))
	c.scheduler.Mutated()
}

// --- reviews ---

func (c *Client) Reviews(ctx context.Context) []entity.Review {
	reviews := c.reviews.Local()
	go c.reviews.Sync(ctx)
	return reviews
}

// SubmitReview records a review locally (visible at once) and pushes it
// to the shared store in the background.
func (c *Client) SubmitReview(ctx context.Context, itemID string, rating int, reviewerName, text string) (entity.Review, error) {
	if itemID == "" || reviewerName == "" || text == "" || rating < 1 || rating > 5 {
		return entity.Review{}, errors.New("itemId, rating (1-5), reviewerName and text are required")
	}

	itemName := "Unknown"
	for _, item := range c.menu.Local() {
		if item.ID == itemID {
			itemName = item.Name
			break
		}
	}

	review := entity.Review{
		ID:           entity.NewID(),
		ItemID:       itemID,
		ItemName:     itemName,
		Rating:       rating,
		ReviewerName: reviewerName,
		Text:         text,
		Timestamp:    c.now().UnixMilli(),
	}
	c.reviews.Upsert(review)

	go c.api.Post(context.WithoutCancel(ctx), "/reviews", review, nil)
	c.scheduler.Mutated()
	return review, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) {
	c.reviews.Delete(id)
	go c.api.Delete(context.WithoutCancel(ctx), "/reviews?id="+url.QueryEscape(id))
	c.scheduler.Mutated()
}

// --- reservations ---

func (c *Client) Reservations(ctx context.Context) []entity.Reservation {
	reservations := c.reservations.Local()
	go c.reservations.Sync(ctx)
	return reservations
}

// Reserve books a table. The signed-in user's email is attached when the
// caller did not set one.
func (c *Client) Reserve(ctx context.Context, reservation entity.Reservation) (entity.Reservation, error) {
	if reservation.Name == "" || reservation.Phone == "" || reservation.Guests <= 0 ||
		reservation.Date == "" || reservation.Time == "" {
		return entity.Reservation{}, errors.New("name, phone, guests, date and time are required for a reservation")
	}
	if reservation.ID == "" {
		reservation.ID = entity.NewID()
	}
	if reservation.UserEmail == nil {
		if user := c.session.CurrentUser(); user != nil {
			email := user.Email
			reservation.UserEmail = &email
		}
	}
	reservation.CreatedAt = c.now().UnixMilli()
	reservation.Status = entity.ReservationPending

	c.reservations.Upsert(reservation)
	go c.api.Post(context.WithoutCancel(ctx), "/reservations", reservation, nil)
	c.scheduler.Mutated()
	return reservation, nil
}

// SetReservationStatus is the admin approve/reject action.
func (c *Client) SetReservationStatus(ctx context.Context, id, status string) error {
	if !entity.ValidReservationStatus(status) {
		return errors.New("status must be pending, approved or rejected")
	}
	for _, reservation := range c.reservations.Local() {
		if reservation.ID == id {
			reservation.Status = status
			c.reservations.Upsert(reservation)
			break
		}
	}
	go c.api.Patch(context.WithoutCancel(ctx), "/reservations?id="+url.QueryEscape(id), map[string]string{"status": status}, nil)
	c.scheduler.Mutated()
	return nil
}

func (c *Client) CancelReservation(ctx context.Context, id string) {
	c.reservations.Delete(id)
	go c.api.Delete(context.WithoutCancel(ctx), "/reservations?id="+url.QueryEscape(id))
	c.scheduler.Mutated()
}

// ClearReservations wipes the whole book (admin).
func (c *Client) ClearReservations(ctx context.Context) {
	for _, reservation := range c.reservations.Local() {
		c.reservations.Delete(reservation.ID)
	}
	go c.api.Delete(context.WithoutCancel(ctx), "/reservations")
	c.scheduler.Mutated()
}

// --- sales ---

// RecordSale closes out a bill: write-through only, the sales report is
// never pulled back down by this client.
func (c *Client) RecordSale(ctx context.Context, items []entity.SaleItem) entity.Sale {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Qty)
	}
	sale := entity.Sale{
		ID:        entity.NewID(),
		Timestamp: c.now().UnixMilli(),
		Total:     total,
		Items:     items,
	}
	c.sales.Upsert(sale)

	go c.api.Post(context.WithoutCancel(ctx), "/sales", map[string]any{
		"items": items,
		"total": total,
	}, nil)
	return sale
}

func (c *Client) Sales() []entity.Sale { return c.sales.Local() }

// --- users & session ---

// SignUp registers an account. The server copy wins when reachable; the
// local record keeps the session working either way.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (entity.User, error) {
	if email == "" || password == "" || name == "" {
		return entity.User{}, errors.New("email, password and name are required")
	}

	user := entity.User{
		ID:    entity.NewID(),
		Email: strings.ToLower(email),
		Name:  name,
		Role:  entity.RoleUser,
	}
	raw := c.api.Post(ctx, "/users", map[string]string{
		"email": user.Email, "password": password, "name": name,
	}, nil)
	if raw != nil {
		var created entity.User
		if err := gojson.Unmarshal(raw, &created); err == nil && created.ID != "" {
			user = created
		}
	}

	c.users.Upsert(user)
	c.session.SetCurrentUser(&user)
	c.session.RememberCredentials(user.Email, password)
	return user, nil
}

// Login authenticates against the server when it answers, otherwise
// against credentials this device has signed in with before.
func (c *Client) Login(ctx context.Context, email, password string) (entity.User, error) {
	raw := c.api.Post(ctx, "/auth/login", map[string]string{
		"email": email, "password": password,
	}, nil)
	if raw != nil {
		var body struct {
			Token string      `json:"token"`
			User  entity.User `json:"user"`
		}
		if err := gojson.Unmarshal(raw, &body); err == nil && body.User.ID != "" {
			c.session.SetToken(body.Token)
			c.session.SetCurrentUser(&body.User)
			c.session.RememberCredentials(body.User.Email, password)
			c.setAdmin(body.User.Role)
			c.users.Upsert(body.User)
			return body.User, nil
		}
	}

	// Offline fallback: the given pair must match what this device has
	// used before, so a wrong password fails here too.
	if c.session.CheckCredentials(email, password) {
		lower := strings.ToLower(email)
		for _, user := range c.users.Local() {
			if strings.ToLower(user.Email) == lower {
				c.session.SetCurrentUser(&user)
				c.setAdmin(user.Role)
				return user, nil
			}
		}
	}
	return entity.User{}, errors.New("invalid credentials or server unreachable")
}

func (c *Client) setAdmin(role string) {
	if role == entity.RoleAdmin {
		c.session.GrantAdmin()
	} else {
		c.session.RevokeAdmin()
	}
}

func (c *Client) Logout() {
	c.session.SetToken("")
	c.session.SetCurrentUser(nil)
	c.session.RevokeAdmin()
}

func (c *Client) CurrentUser() *entity.User { return c.session.CurrentUser() }

func (c *Client) IsAdmin() bool { return c.session.IsAdmin() }

// ToggleFavorite flips a dish in the signed-in user's favorites and
// reports whether it is now a favorite.
func (c *Client) ToggleFavorite(itemID string) bool {
	user := c.session.CurrentUser()
	if user == nil {
		return false
	}
	now := false
	kept := user.Favorites[:0]
	for _, id := range user.Favorites {
		if id != itemID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(user.Favorites) {
		kept = append(kept, itemID)
		now = true
	}
	user.Favorites = kept
	c.session.SetCurrentUser(user)
	c.users.Upsert(*user)
	return now
}

// UpdateProfile edits the signed-in user's display name and avatar.
func (c *Client) UpdateProfile(name, avatarURL string) error {
	user := c.session.CurrentUser()
	if user == nil {
		return errors.New("not signed in")
	}
	if name != "" {
		user.Name = name
	}
	user.AvatarURL = avatarURL
	c.session.SetCurrentUser(user)
	c.users.Upsert(*user)
	return nil
}
