package session

import (
	"crypto/rand"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "pantry_session"
	staffIDKey  = "staff_id"
)

// Manager はフラッシュメッセージと操作スタッフのセッションを管理します。
// 署名キーは設定ファイルから渡します (コードへの埋め込みはしません)。
type Manager struct {
	store          *sessions.CookieStore
	defaultStaffID int
}

// NewManager はセッションマネージャを作ります。secret が空の場合は
// 起動ごとのランダムキーを使います (再起動でセッションは無効になります)。
func NewManager(secret string, defaultStaffID int) *Manager {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("failed to generate session key: %v", err)
		}
		log.Println("WARN: sessionSecret is not configured. Using a random key; sessions will not survive restarts.")
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
	}
	return &Manager{store: store, defaultStaffID: defaultStaffID}
}

// CurrentStaffID はセッション上の担当スタッフ ID を返します。
// 未ログインの場合は設定で決めた既定スタッフ ID を返します。
func (m *Manager) CurrentStaffID(r *http.Request) int {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		return m.defaultStaffID
	}
	if id, ok := s.Values[staffIDKey].(int); ok && id > 0 {
		return id
	}
	return m.defaultStaffID
}

// SetStaffID は担当スタッフをセッションに保存します。
func (m *Manager) SetStaffID(w http.ResponseWriter, r *http.Request, staffID int) {
	s, _ := m.store.Get(r, sessionName)
	s.Values[staffIDKey] = staffID
	if err := s.Save(r, w); err != nil {
		log.Printf("failed to save staff session: %v", err)
	}
}

// AddFlash は次のページで 1 回だけ表示する通知を積みます。
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	s, _ := m.store.Get(r, sessionName)
	s.AddFlash(message)
	if err := s.Save(r, w); err != nil {
		log.Printf("failed to save flash message: %v", err)
	}
}

// Flashes は積まれた通知を取り出して消します。
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		log.Printf("failed to clear flash messages: %v", err)
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
