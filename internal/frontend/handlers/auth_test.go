package handlers

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/oubliette-games/oubliette/internal/config"
	"github.com/oubliette-games/oubliette/internal/frontend/telnet"
	"github.com/oubliette-games/oubliette/internal/game/character"
	"github.com/oubliette-games/oubliette/internal/game/dice"
	"github.com/oubliette-games/oubliette/internal/game/mutation"
	"github.com/oubliette-games/oubliette/internal/game/species"
	"github.com/oubliette-games/oubliette/internal/storage/postgres"
)

// mockAccountStore implements AccountStore for testing.
type mockAccountStore struct {
	accounts  map[string]postgres.Account
	passwords map[string]string
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{
		accounts:  make(map[string]postgres.Account),
		passwords: make(map[string]string),
	}
}

func (m *mockAccountStore) Create(_ context.Context, username, password string) (postgres.Account, error) {
	if _, exists := m.accounts[username]; exists {
		return postgres.Account{}, postgres.ErrAccountExists
	}
	acct := postgres.Account{
		ID:        int64(len(m.accounts) + 1),
		Username:  username,
		Role:      postgres.RolePlayer,
		CreatedAt: time.Now(),
	}
	m.accounts[username] = acct
	m.passwords[username] = password
	return acct, nil
}

func (m *mockAccountStore) Authenticate(_ context.Context, username, password string) (postgres.Account, error) {
	acct, exists := m.accounts[username]
	if !exists {
		return postgres.Account{}, postgres.ErrAccountNotFound
	}
	if m.passwords[username] != password {
		return postgres.Account{}, postgres.ErrInvalidCredentials
	}
	return acct, nil
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (postgres.Account, error) {
	acct, exists := m.accounts[username]
	if !exists {
		return postgres.Account{}, postgres.ErrAccountNotFound
	}
	return acct, nil
}

func (m *mockAccountStore) SetRole(_ context.Context, accountID int64, role string) error {
	if !postgres.ValidRole(role) {
		return postgres.ErrInvalidRole
	}
	for username, acct := range m.accounts {
		if acct.ID == accountID {
			acct.Role = role
			m.accounts[username] = acct
			return nil
		}
	}
	return postgres.ErrAccountNotFound
}

// mockCharacterStore implements CharacterStore in memory.
type mockCharacterStore struct {
	chars map[uuid.UUID]*character.Character
}

func newMockCharacterStore() *mockCharacterStore {
	return &mockCharacterStore{chars: make(map[uuid.UUID]*character.Character)}
}

func (m *mockCharacterStore) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	for _, existing := range m.chars {
		if existing.AccountID == c.AccountID && existing.Name == c.Name {
			return nil, postgres.ErrCharacterNameTaken
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.chars[c.ID] = c
	return c, nil
}

func (m *mockCharacterStore) ListByAccount(_ context.Context, accountID int64) ([]*character.Character, error) {
	var out []*character.Character
	for _, c := range m.chars {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCharacterStore) GetByName(_ context.Context, accountID int64, name string) (*character.Character, error) {
	for _, c := range m.chars {
		if c.AccountID == accountID && c.Name == name {
			return c, nil
		}
	}
	return nil, postgres.ErrCharacterNotFound
}

func (m *mockCharacterStore) Save(_ context.Context, c *character.Character) error {
	if _, ok := m.chars[c.ID]; !ok {
		return postgres.ErrCharacterNotFound
	}
	m.chars[c.ID] = c
	return nil
}

func (m *mockCharacterStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.chars[id]; !ok {
		return postgres.ErrCharacterNotFound
	}
	delete(m.chars, id)
	return nil
}

func consoleSpecies() *species.Registry {
	reg := species.NewRegistry()
	reg.Register(&species.Def{
		ID: "human", Abbrev: "Hu", Name: "Human",
		Size: species.SizeMedium,
		Str:  8, Int: 8, Dex: 8,
		LevelStats:      []string{"str", "int", "dex"},
		StatGainEvery:   4,
		RecommendedJobs: []string{"fighter"},
	})
	reg.Register(&species.Def{
		ID: "felid", Abbrev: "Fe", Name: "Felid",
		Flags: []string{species.FlagNoBones},
		Size:  species.SizeLittle,
		Str:   4, Int: 9, Dex: 11,
		Mutations: []species.LevelMutation{
			{Mutation: "claws", Level: 1, AtXL: 1},
			{Mutation: "paws", Level: 1, AtXL: 1},
		},
		Aptitudes:       map[string]int{"stealth": 4},
		RecommendedJobs: []string{"berserker"},
	})
	reg.Register(&species.Def{
		ID: "mummy", Abbrev: "Mu", Name: "Mummy",
		Undead: species.UndeadFull,
		Size:   species.SizeMedium,
		Str:    11, Int: 7, Dex: 7,
		Removed: true,
	})
	return reg
}

func consoleMutations() *mutation.Registry {
	reg := mutation.NewRegistry()
	for _, d := range []*mutation.Def{
		{ID: "claws", Name: "claws", MaxLevel: 3,
			GainMessages: []string{"Your fingernails sharpen."}},
		{ID: "paws", Name: "paws", MaxLevel: 1},
		{ID: "fangs", Name: "fangs", MaxLevel: 3,
			GainMessages: []string{"Your teeth lengthen into fangs."}},
	} {
		reg.Register(d)
	}
	return reg
}

// zeroSource always rolls the minimum.
type zeroSource struct{}

func (zeroSource) Intn(int) int { return 0 }

// newTestHandler wires an AuthHandler with in-memory stores.
func newTestHandler(t *testing.T, accounts *mockAccountStore, chars *mockCharacterStore) *AuthHandler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	speciesReg := consoleSpecies()
	mutationReg := consoleMutations()
	growth := character.NewGrowth(speciesReg, mutationReg,
		dice.NewLoggedRoller(zeroSource{}, zap.NewNop()), zap.NewNop())
	console := NewConsole(speciesReg, mutationReg, growth, chars, accounts, logger)
	return NewAuthHandler(accounts, console, logger)
}

// testServer starts a Telnet acceptor with the given handler on a random port
// and returns the listening address. The acceptor is stopped on test cleanup.
func testServer(t *testing.T, handler *AuthHandler) string {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := config.ConsoleConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	acc := telnet.NewAcceptor(cfg, handler, logger)
	go func() { _ = acc.ListenAndServe() }()

	deadline := time.After(2 * time.Second)
	for {
		if acc.IsRunning() && acc.Addr() != "" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("acceptor did not start in time")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Cleanup(func() { acc.Stop() })
	return acc.Addr()
}

// testClient connects to addr and returns a raw TCP conn with helpers.
// It maintains a persistent read buffer across readUntil calls, discarding
// only the data up to and including the matched substring.
type testClient struct {
	conn   net.Conn
	t      *testing.T
	buffer string
}

func newTestClient(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{conn: conn, t: t}
}

func (tc *testClient) readUntil(substr string, timeout time.Duration) string {
	tc.t.Helper()

	if idx := strings.Index(tc.buffer, substr); idx >= 0 {
		end := idx + len(substr)
		result := tc.buffer[:end]
		tc.buffer = tc.buffer[end:]
		return result
	}

	_ = tc.conn.SetReadDeadline(time.Now().Add(timeout))
	tmp := make([]byte, 4096)
	for {
		n, err := tc.conn.Read(tmp)
		if n > 0 {
			tc.buffer += string(tmp[:n])
			if idx := strings.Index(tc.buffer, substr); idx >= 0 {
				end := idx + len(substr)
				result := tc.buffer[:end]
				tc.buffer = tc.buffer[end:]
				return result
			}
		}
		if err != nil {
			tc.t.Fatalf("reading until %q: got %q, error: %v", substr, tc.buffer, err)
		}
	}
}

func (tc *testClient) send(line string) {
	tc.t.Helper()
	_ = tc.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := tc.conn.Write([]byte(line + "\r\n"))
	require.NoError(tc.t, err)
}

// waitForPrompt reads through the welcome banner and initial telnet negotiations
// until the last banner line is visible.
func (tc *testClient) waitForPrompt() string {
	tc.t.Helper()
	return tc.readUntil("to disconnect.", 3*time.Second)
}

// login registers the account in the store and drives the client through the
// login flow to the console prompt.
func (tc *testClient) login(store *mockAccountStore, username, password string) {
	tc.t.Helper()
	if _, exists := store.accounts[username]; !exists {
		_, _ = store.Create(context.Background(), username, password)
	}
	tc.waitForPrompt()
	tc.send("login " + username + " " + password)
	tc.readUntil("Welcome back", 2*time.Second)
}

func TestWelcomeBannerContainsKeyElements(t *testing.T) {
	stripped := telnet.StripANSI(welcomeBanner)
	assert.Contains(t, stripped, "Wizard Console")
	assert.Contains(t, stripped, "login")
	assert.Contains(t, stripped, "register")
	assert.Contains(t, stripped, "quit")
}

func TestHandleSession_Quit(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("quit")
	c.readUntil("Goodbye!", 2*time.Second)
}

func TestHandleSession_Help(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("help")
	output := c.readUntil("Disconnect", 2*time.Second)
	stripped := telnet.StripANSI(output)
	assert.Contains(t, stripped, "login")
	assert.Contains(t, stripped, "register")
	assert.Contains(t, stripped, "quit")
}

func TestHandleSession_UnknownCommand(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("foobar")
	output := c.readUntil("available commands", 2*time.Second)
	assert.Contains(t, telnet.StripANSI(output), "foobar")
}

func TestHandleSession_Register(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("register testuser password123")
	output := c.readUntil("You may now", 2*time.Second)
	assert.Contains(t, telnet.StripANSI(output), "testuser")
}

func TestHandleSession_RegisterDuplicate(t *testing.T) {
	store := newMockAccountStore()
	store.accounts["testuser"] = postgres.Account{ID: 1, Username: "testuser"}
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("register testuser password123")
	c.readUntil("already taken", 2*time.Second)
}

func TestHandleSession_RegisterShortUsername(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("register ab password123")
	c.readUntil("3-32 characters", 2*time.Second)
}

func TestHandleSession_RegisterShortPassword(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("register testuser abc")
	c.readUntil("at least 6", 2*time.Second)
}

func TestHandleSession_LoginNotFound(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("login nobody secret123")
	c.readUntil("Account not found", 2*time.Second)
}

func TestHandleSession_LoginWrongPassword(t *testing.T) {
	store := newMockAccountStore()
	store.accounts["testuser"] = postgres.Account{ID: 1, Username: "testuser"}
	store.passwords["testuser"] = "correctpass"
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.waitForPrompt()
	c.send("login testuser wrongpass")
	c.readUntil("Invalid password", 2*time.Second)
}

func TestConsole_SpeciesList(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("species")
	output := c.readUntil("Removed:", 2*time.Second)
	stripped := telnet.StripANSI(output)
	assert.Contains(t, stripped, "Human")
	assert.Contains(t, stripped, "Felid")
	c.readUntil("Mummy", 2*time.Second)
}

func TestConsole_SpeciesInfo(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("species info fe")
	output := c.readUntil("stealth", 2*time.Second)
	stripped := telnet.StripANSI(output)
	assert.Contains(t, stripped, "Felid (Fe)")
	assert.Contains(t, stripped, "claws")
}

func TestConsole_SpeciesName(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("species name felid adjective")
	c.readUntil("Felid", 2*time.Second)
}

func TestConsole_CreateAndSheet(t *testing.T) {
	store := newMockAccountStore()
	chars := newMockCharacterStore()
	handler := newTestHandler(t, store, chars)
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("create Mogget felid")
	output := c.readUntil("Level 1", 3*time.Second)
	stripped := telnet.StripANSI(output)
	assert.Contains(t, stripped, "Mogget the Felid")

	c.send("info")
	sheet := telnet.StripANSI(c.readUntil("paws", 2*time.Second))
	assert.Contains(t, sheet, "claws")
}

func TestConsole_CreateRemovedSpecies(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("create Imhotep mummy")
	c.readUntil("no longer playable", 2*time.Second)
}

func TestConsole_CreateDuplicateName(t *testing.T) {
	store := newMockAccountStore()
	chars := newMockCharacterStore()
	handler := newTestHandler(t, store, chars)
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("create Mogget felid")
	c.readUntil("Level 1", 3*time.Second)
	c.send("create Mogget human")
	c.readUntil("already have a character named Mogget", 2*time.Second)
}

func TestConsole_LevelUpAndMutate(t *testing.T) {
	store := newMockAccountStore()
	chars := newMockCharacterStore()
	handler := newTestHandler(t, store, chars)
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("create Pat human")
	c.readUntil("Level 1", 3*time.Second)

	c.send("levelup")
	c.readUntil("You are now level 2.", 2*time.Second)

	c.send("mutate fangs")
	c.readUntil("Your teeth lengthen into fangs.", 2*time.Second)

	c.send("mutate nosuch")
	c.readUntil("Unknown mutation", 2*time.Second)
}

func TestConsole_ChangeSpecies(t *testing.T) {
	store := newMockAccountStore()
	chars := newMockCharacterStore()
	handler := newTestHandler(t, store, chars)
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("create Pat human")
	c.readUntil("Level 1", 3*time.Second)

	c.send("change felid")
	output := c.readUntil("You are now a Felid!", 3*time.Second)
	assert.Contains(t, telnet.StripANSI(output), "transforms")

	c.send("info")
	sheet := telnet.StripANSI(c.readUntil("paws", 2*time.Second))
	assert.Contains(t, sheet, "Pat the Felid")
}

func TestConsole_SaveLoadDelete(t *testing.T) {
	store := newMockAccountStore()
	chars := newMockCharacterStore()
	handler := newTestHandler(t, store, chars)
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("create Mogget felid")
	c.readUntil("Level 1", 3*time.Second)

	c.send("save")
	c.readUntil("Mogget saved.", 2*time.Second)

	c.send("chars")
	list := telnet.StripANSI(c.readUntil("Felid", 2*time.Second))
	assert.Contains(t, list, "Mogget")

	c.send("load Mogget")
	c.readUntil("Loaded Mogget.", 2*time.Second)

	c.send("delete Mogget")
	c.readUntil("Mogget is gone.", 2*time.Second)

	c.send("chars")
	c.readUntil("no characters", 2*time.Second)
}

func TestConsole_InfoWithoutCharacter(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("info")
	c.readUntil("No character loaded", 2*time.Second)
}

func TestConsole_SetRoleRequiresAdmin(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("setrole hero admin")
	c.readUntil("not an admin", 2*time.Second)
}

func TestConsole_SetRoleAsAdmin(t *testing.T) {
	store := newMockAccountStore()
	_, _ = store.Create(context.Background(), "boss", "secret123")
	boss := store.accounts["boss"]
	boss.Role = postgres.RoleAdmin
	store.accounts["boss"] = boss
	_, _ = store.Create(context.Background(), "worker", "secret123")

	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "boss", "secret123")
	c.send("setrole worker editor")
	c.readUntil("worker is now editor.", 2*time.Second)
	assert.Equal(t, postgres.RoleEditor, store.accounts["worker"].Role)
}

func TestConsole_Quit(t *testing.T) {
	store := newMockAccountStore()
	handler := newTestHandler(t, store, newMockCharacterStore())
	addr := testServer(t, handler)
	c := newTestClient(t, addr)

	c.login(store, "hero", "secret123")
	c.send("quit")
	c.readUntil("Goodbye!", 2*time.Second)
}
