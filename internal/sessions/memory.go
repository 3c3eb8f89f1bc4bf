package sessions

import (
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
)

type record struct {
	values  map[any]any
	expires time.Time
}

// MemoryStore держит значения сессий в памяти процесса. В куке — только
// подписанный и зашифрованный id. Выход удаляет запись, поэтому старая кука
// после logout недействительна.
type MemoryStore struct {
	Codecs  []securecookie.Codec
	Options *gsessions.Options

	mu      sync.RWMutex
	records map[string]record
	now     func() time.Time
}

var _ gsessions.Store = (*MemoryStore)(nil)

func NewMemoryStore(keyPairs ...[]byte) *MemoryStore {
	s := &MemoryStore{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &gsessions.Options{
			Path:   "/",
			MaxAge: 86400 * 30,
		},
		records: make(map[string]record),
		now:     time.Now,
	}
	s.MaxAge(s.Options.MaxAge)
	return s
}

// MaxAge задаёт срок жизни и куки, и записи.
func (s *MemoryStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, c := range s.Codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

func (s *MemoryStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New возвращает сессию из памяти или новую, если куки нет,
// она не расшифровалась или запись удалена/просрочена.
func (s *MemoryStore) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.Codecs...); err != nil {
		return session, err
	}
	if rec, ok := s.load(id); ok {
		session.ID = id
		session.Values = rec.values
		session.IsNew = false
	}
	return session, nil
}

// Save: MaxAge < 0 — удалить запись и куку. Пустой ID — выдать новый.
func (s *MemoryStore) Save(_ *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if session.Options.MaxAge < 0 {
		s.delete(session.ID)
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if ttl <= 0 {
		ttl = time.Duration(s.Options.MaxAge) * time.Second
	}
	s.store(session.ID, record{values: maps.Clone(session.Values), expires: s.now().Add(ttl)})

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Len — число живых записей.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) load(id string) (record, bool) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return record{}, false
	}
	if !s.now().Before(rec.expires) {
		s.delete(id)
		return record{}, false
	}
	return record{values: maps.Clone(rec.values), expires: rec.expires}, true
}

// store заодно выкидывает просроченные записи.
func (s *MemoryStore) store(id string, rec record) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.records {
		if !now.Before(v.expires) {
			delete(s.records, k)
		}
	}
	s.records[id] = rec
}

func (s *MemoryStore) delete(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
}
