// Package park implements a theme-park coordination node: virtual ride
// queues, shops with a two-currency purchase flow, food locations, show
// schedules, wardrobes, warps, interactive signs, ride counters and
// per-player storage, shared across a cluster of game servers through a
// message bus and common ledgers.
//
// A Park owns all of its in-memory state exclusively: every mutation runs as
// a transaction on a single loop goroutine, entered through Park.Exec.
// Background work such as currency deduction and record persistence runs on
// workers that re-enqueue onto the loop before touching shared state.
package park

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/chat"
	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/food"
	"github.com/sparkparks/parkmanager/park/item"
	"github.com/sparkparks/parkmanager/park/menu"
	"github.com/sparkparks/parkmanager/park/msg"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/query"
	"github.com/sparkparks/parkmanager/park/ridecount"
	"github.com/sparkparks/parkmanager/park/shop"
	"github.com/sparkparks/parkmanager/park/show"
	"github.com/sparkparks/parkmanager/park/sign"
	"github.com/sparkparks/parkmanager/park/storage"
	"github.com/sparkparks/parkmanager/park/vqueue"
	"github.com/sparkparks/parkmanager/park/wardrobe"
	"github.com/sparkparks/parkmanager/park/warp"
)

// Version is the version of the park node software, reported on the status
// endpoint.
const Version = "1.2.0"

// Park is a theme-park node of a cluster. Parks are created through
// Config.New.
type Park struct {
	conf Config
	log  *slog.Logger

	queue        chan transaction
	queueClosing chan struct{}
	queueing     sync.WaitGroup

	closing chan struct{}
	running sync.WaitGroup

	// background tracks fire-and-forget work spawned from the loop, such as
	// ride count writes. It is waited on after the loop stopped.
	background sync.WaitGroup

	startTime  time.Time
	lastMinute string

	players   *player.Registry
	menus     *menu.Tracker
	queues    *vqueue.Registry
	broadcast *vqueue.Broadcaster
	shops     *shop.Manager
	purchases *shop.Coordinator
	food      *food.Manager
	shows     *show.Manager
	warps     *warp.Registry
	outfits   *wardrobe.Manager
	signs     *sign.Manager

	charger *economy.Charger
	status  *query.Server

	statusMu   sync.Mutex
	statusData query.Data

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// New creates a Park node using the fields of conf. The node's data files
// are loaded, its transaction loop is started and, if a status address is
// configured, the status endpoint begins listening. New panics when a data
// file exists but cannot be read: a node must not run on half of its data.
func (conf Config) New() *Park {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Name == "" {
		conf.Name = "park1"
	}
	if len(conf.Parks) == 0 {
		conf.Parks = []string{"park"}
	}
	conf.Parks = slices.Clone(conf.Parks)
	if conf.DataDir == "" {
		conf.DataDir = "data"
	}
	if conf.Ledger == nil {
		conf.Ledger = economy.NewMemory()
	}
	if conf.Rides == nil {
		conf.Rides = ridecount.NewMemory()
	}
	if conf.Bus == nil {
		conf.Bus = msg.NewMemory()
	}
	if conf.Staff == nil {
		conf.Staff = NewStaff()
	}

	p := &Park{
		conf:         conf,
		log:          conf.Log,
		queue:        make(chan transaction, 128),
		queueClosing: make(chan struct{}),
		closing:      make(chan struct{}),
		done:         make(chan struct{}),
		startTime:    time.Now(),
		lastMinute:   time.Now().Format("15:04"),
	}
	p.players = player.NewRegistry()
	p.menus = menu.NewTracker()
	p.queues = vqueue.NewRegistry(conf.Name, conf.DataDir, conf.Log)
	p.broadcast = vqueue.NewBroadcaster(conf.Bus, conf.Log)
	p.outfits = wardrobe.NewManager(filepath.Join(conf.DataDir, "outfits.json"), conf.Log)
	p.shops = shop.NewManager(conf.DataDir, p.outfits, conf.Log)
	p.food = food.NewManager(conf.DataDir, conf.Log)
	p.shows = show.NewManager(conf.DataDir, conf.Log)
	p.warps = warp.NewRegistry(conf.DataDir, conf.Log)
	p.signs = sign.NewManager(conf.DataDir, conf.Log)
	p.charger = economy.NewCharger(conf.Ledger, conf.Log, func(f func()) {
		p.Exec(func(*Tx) { f() })
	})
	p.purchases = shop.NewCoordinator(conf.Ledger, p.charger, p.outfits, p.shops, p.menus, p.SaveRecord, conf.Log)

	p.loadData()
	p.refreshStatus()

	conf.Bus.Handle(p.handlePacket)

	p.queueing.Add(1)
	go p.handleTransactions()
	p.running.Add(1)
	go p.startTicking()

	if conf.StatusAddress != "" {
		p.status = query.NewServer(conf.StatusAddress, p, conf.Log)
		p.status.Start()
	}
	p.log.Info("Park node started.", "node", conf.Name, "parks", strings.Join(conf.Parks, ", "))
	return p
}

// loadData reads every per-park data file of the node. A file that exists
// but does not parse stops the node from starting: running on a partial
// data set and saving over the rest would lose it.
func (p *Park) loadData() {
	parks := p.conf.Parks
	if err := p.outfits.Load(); err != nil {
		panic("park: " + err.Error())
	}
	for _, load := range []func([]string) error{
		p.queues.Load, p.shops.Load, p.food.Load, p.shows.Load, p.warps.Load, p.signs.Load,
	} {
		if err := load(parks); err != nil {
			panic("park: " + err.Error())
		}
	}
}

// Exec performs a synchronised transaction f on the Park. Exec returns a
// channel that is closed once the transaction is complete. Exec must not be
// called after Close has returned.
func (p *Park) Exec(f ExecFunc) <-chan struct{} {
	c := make(chan struct{})
	p.queue <- normalTransaction{c: c, f: f}
	return c
}

// handleTransactions continuously reads transactions from the queue and runs
// them.
func (p *Park) handleTransactions() {
	for {
		select {
		case tx := <-p.queue:
			tx.Run(p)
		case <-p.queueClosing:
			p.queueing.Done()
			return
		}
	}
}

// startTicking runs the node's once-per-second tick until the Park closes.
func (p *Park) startTicking() {
	defer p.running.Done()
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case now := <-t.C:
			<-p.Exec(func(tx *Tx) { p.tick(tx, now) })
		case <-p.closing:
			return
		}
	}
}

// tick refreshes the status snapshot and, once per wall-clock minute, calls
// the shows starting in that minute.
func (p *Park) tick(_ *Tx, now time.Time) {
	p.refreshStatus()
	minute := now.Format("15:04")
	if minute == p.lastMinute {
		return
	}
	p.lastMinute = minute
	for _, park := range p.conf.Parks {
		for _, s := range p.shows.Starting(park, now) {
			text := fmt.Sprintf("%v is starting now!", s.Name)
			if s.Warp != "" {
				text = fmt.Sprintf("%v is starting now! Warp to %v to watch.", s.Name, s.Warp)
			}
			// Publish failure is already logged; a missed show call is not
			// worth more than that.
			_ = p.Announce(park, text)
		}
	}
}

// handlePacket applies packets received from the cluster bus. It runs on the
// bus's receive goroutine and hands all state changes to the loop.
func (p *Park) handlePacket(pk msg.Packet) {
	switch pk := pk.(type) {
	case *msg.UpdateQueuePacket:
		p.Exec(func(tx *Tx) {
			if tx.Queues().ApplySync(pk.QueueID, pk.Open) {
				p.log.Debug("Applied queue update.", "queue", pk.QueueID, "open", pk.Open)
			}
		})
	case *msg.AnnouncePacket:
		p.Exec(func(tx *Tx) {
			for pl := range tx.Players() {
				if pk.Park == "" || pl.Park() == pk.Park {
					pl.Message(pk.Message)
				}
			}
		})
	}
}

// Join connects a player to the node. The player's record is loaded before
// the player becomes visible to the loop, so record I/O never blocks a
// transaction. The returned Player is owned by the node's loop; see the
// player package.
func (p *Park) Join(id uuid.UUID, name string, s player.Session) (*player.Player, error) {
	rec := storage.NewRecord()
	if p.conf.Records != nil {
		loaded, err := p.conf.Records.Load(id)
		if err != nil {
			return nil, fmt.Errorf("load record of %v: %w", name, err)
		}
		rec = loaded
	}
	pl := player.New(id, name, p.conf.Parks[0], p.conf.Staff.Is(name), s, &rec)

	var joinErr error
	<-p.Exec(func(tx *Tx) {
		if err := p.players.Add(pl); err != nil {
			joinErr = err
			return
		}
		p.outfits.LoadOwned(id, rec.Outfits)
		chat.Global.Subscribe(pl)
	})
	if joinErr != nil {
		if p.conf.Records != nil {
			p.conf.Records.Forget(id)
		}
		return nil, joinErr
	}
	p.log.Info("Player connected.", "name", name, "uuid", id)
	return pl, nil
}

// Quit disconnects the player with the UUID passed, flushing its record and
// discarding any pending purchase and open menu.
func (p *Park) Quit(id uuid.UUID) {
	<-p.Exec(func(tx *Tx) {
		pl, ok := p.players.Remove(id)
		if !ok {
			return
		}
		chat.Global.Unsubscribe(id)
		p.menus.Drop(id)
		p.purchases.Drop(id)
		p.SaveRecord(pl)
		p.outfits.DropOwned(id)
		if p.conf.Records != nil {
			p.conf.Records.Forget(id)
		}
		p.log.Info("Player disconnected.", "name", pl.Name(), "uuid", id)
	})
}

// ExecuteCommand runs a command line on the node's loop on behalf of the
// source passed. The channel returned is closed once the command finished.
func (p *Park) ExecuteCommand(src cmd.Source, line string) <-chan struct{} {
	return p.Exec(func(*Tx) {
		cmd.ExecuteLine(src, line, nil)
	})
}

// Submit runs the option a player selected from its open menu. Stale
// selections, such as clicks on a menu that was already replaced, are
// discarded.
func (p *Park) Submit(id uuid.UUID, index int) <-chan struct{} {
	return p.Exec(func(tx *Tx) {
		tx.Menus().Submit(id, index)
	})
}

// Interact performs the action of the sign at the block position passed, on
// behalf of the player with the UUID passed. Positions without a registered
// sign do nothing.
func (p *Park) Interact(id uuid.UUID, pos [3]int) <-chan struct{} {
	return p.Exec(func(tx *Tx) {
		pl, ok := tx.PlayerByID(id)
		if !ok {
			return
		}
		e, ok := p.signs.At(pl.Park(), pos)
		if !ok {
			return
		}
		p.interactSign(tx, pl, e)
	})
}

func (p *Park) interactSign(tx *Tx, pl *player.Player, e sign.Entry) {
	switch e.Kind {
	case sign.Disposal:
		if held := pl.Held(); !held.Empty() {
			if err := pl.SetHeld(item.Stack{}); err != nil {
				p.log.Error("empty held stack", "player", pl.Name(), "err", err)
				return
			}
			pl.Message("Poof! Your trash is gone.")
		}
	case sign.WarpSign:
		w, ok := p.warps.ByName(e.Payload)
		if !ok {
			pl.Message("That warp no longer exists.")
			return
		}
		if err := p.Travel(pl, w); err != nil {
			p.log.Error("travel to warp sign", "player", pl.Name(), "warp", w.Name, "err", err)
			pl.Message("Something went wrong, please check with staff.")
		}
	case sign.QueueSign:
		p.joinQueue(pl, e.Payload)
	case sign.ShopSign:
		s, ok := p.shops.ByID(pl.Park(), e.Payload)
		if !ok {
			pl.Message("That shop no longer exists.")
			return
		}
		p.purchases.OpenShop(pl, s)
	case sign.Leaderboard:
		p.showLeaderboard(pl, e.Payload)
	}
}

// joinQueue joins a player to the queue with the id passed, reporting the
// position on success and the reason on failure.
func (p *Park) joinQueue(pl *player.Player, id string) {
	q, pos, err := p.queues.Join(id, pl.UUID())
	switch {
	case err == nil:
		pl.Messagef("You joined the queue for %v! You are number %v in line.", q.Name(), pos)
	case err == vqueue.ErrUnknownQueue:
		pl.Message("That queue no longer exists.")
	case err == vqueue.ErrNotHost:
		pl.Messagef("%v is boarding from %v. Head over there to join!", q.Name(), q.Host())
	case err == vqueue.ErrClosed:
		pl.Messagef("%v is closed right now.", q.Name())
	case err == vqueue.ErrQueued:
		if n, ok := q.Position(pl.UUID()); ok {
			pl.Messagef("You are already in line for %v, at number %v.", q.Name(), n)
		}
	default:
		pl.Message("Something went wrong, please check with staff.")
	}
}

// showLeaderboard renders the top ride counts of a ride to the player. The
// counter read happens synchronously; leaderboards back interactive signs
// and must answer in place.
func (p *Park) showLeaderboard(pl *player.Player, ride string) {
	rows, err := p.rides().Top(context.Background(), ride, 10)
	if err != nil {
		p.log.Error("query ride leaderboard", "ride", ride, "err", err)
		pl.Message("Something went wrong, please check with staff.")
		return
	}
	if len(rows) == 0 {
		pl.Messagef("Nobody has ridden %v yet. Be the first!", ride)
		return
	}
	pl.Messagef("Top riders of %v:", ride)
	for i, row := range rows {
		pl.Messagef("%v. %v - %v", i+1, row.Name, chat.Money(row.Total))
	}
}

// Admit performs the admission side effect of a queue advance: the member is
// sent to the queue's warp, told it is their turn and has a ride counted.
// The queue's cooldown already advanced when Admit runs, so a failed
// admission stays within the cooldown window.
func (p *Park) Admit(q *vqueue.Queue, member uuid.UUID) error {
	pl, ok := p.players.ByID(member)
	if !ok {
		return fmt.Errorf("admit to %v: player %v is not connected", q.ID(), member)
	}
	w, ok := p.warps.ByName(q.Warp())
	if !ok {
		return fmt.Errorf("admit %v to %v: %w: %q", pl.Name(), q.ID(), warp.ErrUnknownWarp, q.Warp())
	}
	if err := p.Travel(pl, w); err != nil {
		return fmt.Errorf("admit %v to %v: %w", pl.Name(), q.ID(), err)
	}
	pl.Messagef("It is your turn to ride %v!", q.Name())
	p.countRide(member, pl.Name(), q.ID())
	return nil
}

// countRide records a completed ride on a background goroutine. Counter
// writes are persistence and stay off the loop; a failed write is logged and
// not retried.
func (p *Park) countRide(id uuid.UUID, name, ride string) {
	p.background.Add(1)
	go func() {
		defer p.background.Done()
		if err := p.rides().Add(context.Background(), id, name, ride, p.conf.Name); err != nil {
			p.log.Error("record ride count", "player", name, "ride", ride, "err", err)
		}
	}()
}

// Travel sends a player to the warp passed, transferring it to the hosting
// server first when the warp lives on another node.
func (p *Park) Travel(pl *player.Player, w warp.Warp) error {
	if w.Server != "" && w.Server != p.conf.Name {
		if err := pl.Transfer(w.Server); err != nil {
			return fmt.Errorf("transfer %v to %v: %w", pl.Name(), w.Server, err)
		}
		return nil
	}
	return pl.Teleport(w)
}

// BroadcastQueue publishes the open state of a queue to every node of the
// cluster. The error returned is a warning for the invoking user: the local
// state stands regardless of the outcome.
func (p *Park) BroadcastQueue(q *vqueue.Queue) error {
	return p.broadcast.QueueUpdated(q)
}

// Announce publishes a chat announcement to every node hosting the park
// passed; an empty park addresses the whole cluster. The local park receives
// it through the same path as every other node.
func (p *Park) Announce(park, message string) error {
	pk := &msg.AnnouncePacket{Park: park, Source: p.conf.Name, Message: message}
	if err := p.conf.Bus.Publish(context.Background(), pk); err != nil {
		p.log.Error("publish announcement", "park", park, "err", err)
		return fmt.Errorf("announce: %w", err)
	}
	return nil
}

// SaveRecord schedules the player's storage record for persistence, folding
// the owned outfit set into it first. Clean records are skipped by the
// store's dirty check.
func (p *Park) SaveRecord(pl *player.Player) {
	rec := pl.Record()
	rec.Outfits = p.outfits.Owned(pl.UUID())
	if p.conf.Records == nil {
		return
	}
	p.conf.Records.Flush(pl.UUID(), *rec)
}

// StaffAdd puts a player name on the staff roster and persists it.
func (p *Park) StaffAdd(name string) error {
	_, err := p.conf.Staff.Add(name)
	if err != nil {
		p.log.Error("add staff", "name", name, "err", err)
	}
	return err
}

// StaffRemove removes a player name from the staff roster and persists it.
func (p *Park) StaffRemove(name string) error {
	_, err := p.conf.Staff.Remove(name)
	if err != nil {
		p.log.Error("remove staff", "name", name, "err", err)
	}
	return err
}

// StaffList returns the staff roster sorted by name.
func (p *Park) StaffList() []string {
	return p.conf.Staff.Names()
}

// Node returns the name of this node within the cluster.
func (p *Park) Node() string {
	return p.conf.Name
}

// Parks returns the parks hosted by the node.
func (p *Park) Parks() []string {
	return slices.Clone(p.conf.Parks)
}

// Players returns an iterator over the connected players sorted by name. It
// must only be used on the node's loop.
func (p *Park) Players() iter.Seq[*player.Player] {
	return p.players.All()
}

// Player resolves a connected player by UUID. It must only be used on the
// node's loop.
func (p *Park) Player(id uuid.UUID) (*player.Player, bool) {
	return p.players.ByID(id)
}

// PlayerByName resolves a connected player by name, case-insensitively. It
// must only be used on the node's loop.
func (p *Park) PlayerByName(name string) (*player.Player, bool) {
	return p.players.ByName(name)
}

// PlayerCount returns the number of connected players.
func (p *Park) PlayerCount() int {
	return p.players.Count()
}

// Queues returns the virtual queue registry of the node. It must only be
// used on the node's loop.
func (p *Park) Queues() *vqueue.Registry { return p.queues }

// Shops returns the shop manager of the node. It must only be used on the
// node's loop.
func (p *Park) Shops() *shop.Manager { return p.shops }

// Purchases returns the purchase coordinator of the node. It must only be
// used on the node's loop.
func (p *Park) Purchases() *shop.Coordinator { return p.purchases }

// Food returns the food location manager of the node. It must only be used
// on the node's loop.
func (p *Park) Food() *food.Manager { return p.food }

// Shows returns the show schedule manager of the node. It must only be used
// on the node's loop.
func (p *Park) Shows() *show.Manager { return p.shows }

// Warps returns the warp registry of the node. It must only be used on the
// node's loop.
func (p *Park) Warps() *warp.Registry { return p.warps }

// Outfits returns the wardrobe manager of the node. It must only be used on
// the node's loop.
func (p *Park) Outfits() *wardrobe.Manager { return p.outfits }

// Signs returns the sign manager of the node. It must only be used on the
// node's loop.
func (p *Park) Signs() *sign.Manager { return p.signs }

// Ledger returns the economy ledger of the node. It is safe for use from any
// goroutine.
func (p *Park) Ledger() economy.Ledger { return p.conf.Ledger }

// Rides returns the ride counter store of the node. It is safe for use from
// any goroutine.
func (p *Park) Rides() ridecount.Counter { return p.rides() }

func (p *Park) rides() ridecount.Counter { return p.conf.Rides }

// Status returns a point-in-time snapshot of the node for the status
// endpoint. It implements query.Provider and is safe for use from any
// goroutine; the snapshot is refreshed once per tick.
func (p *Park) Status() query.Data {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	return p.statusData
}

// refreshStatus rebuilds the status snapshot from loop-owned state.
func (p *Park) refreshStatus() {
	queues := p.queues.All()
	qs := make([]query.QueueStatus, 0, len(queues))
	for _, q := range queues {
		qs = append(qs, query.QueueStatus{
			ID: q.ID(), Name: q.Name(), Park: q.Park(), Open: q.Open(), Waiting: q.Len(),
		})
	}
	d := query.Data{
		Node:          p.conf.Name,
		Version:       Version,
		Parks:         slices.Clone(p.conf.Parks),
		Players:       p.players.Count(),
		UptimeSeconds: int64(time.Since(p.startTime).Seconds()),
		Queues:        qs,
	}
	p.statusMu.Lock()
	p.statusData = d
	p.statusMu.Unlock()
}

// CloseOnProgramEnd closes the Park when the program receives an interrupt
// or termination signal.
func (p *Park) CloseOnProgramEnd() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		if err := p.Close(); err != nil {
			p.log.Error("close park node", "err", err)
		}
	}()
}

// Done returns a channel closed once the Park finished closing.
func (p *Park) Done() <-chan struct{} {
	return p.done
}

// Close shuts the node down: background feeders stop, the records of every
// connected player are flushed, the transaction queue drains and the stores
// are released. Close blocks until shutdown completed and must not be called
// from the node's loop.
func (p *Park) Close() error {
	p.closeOnce.Do(p.close)
	<-p.done
	return p.closeErr
}

func (p *Park) close() {
	p.log.Info("Shutting down park node.")
	defer close(p.done)

	// Stop the ticker first, then everything else that feeds transactions
	// onto the loop. The loop itself must outlive them: the charger and the
	// bus both dispatch completions through Exec.
	close(p.closing)
	p.running.Wait()

	if p.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.status.Close(ctx); err != nil {
			p.log.Error("close status endpoint", "err", err)
		}
		cancel()
	}
	if err := p.charger.Close(); err != nil {
		p.log.Error("close charger", "err", err)
	}
	if err := p.conf.Bus.Close(); err != nil {
		p.log.Error("close cluster bus", "err", err)
	}

	// Flush everyone still connected, then stop the loop. The queue is
	// FIFO, so everything enqueued before this transaction ran first.
	<-p.Exec(func(tx *Tx) {
		for pl := range tx.Players() {
			p.SaveRecord(pl)
		}
	})
	close(p.queueClosing)
	p.queueing.Wait()
	p.background.Wait()

	if p.conf.Records != nil {
		if err := p.conf.Records.Close(); err != nil {
			p.log.Error("close record store", "err", err)
			p.closeErr = err
		}
	}
	if err := p.conf.Rides.Close(); err != nil {
		p.log.Error("close ride counter", "err", err)
		p.closeErr = err
	}
	if err := p.conf.Ledger.Close(); err != nil {
		p.log.Error("close economy ledger", "err", err)
		p.closeErr = err
	}
	p.log.Info("Park node stopped.")
}
