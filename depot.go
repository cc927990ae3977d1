package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/seodeck/depot/backend"
	"github.com/seodeck/depot/core"
	"github.com/seodeck/depot/sqldb"
	"github.com/seodeck/depot/sqldb/mysql"
	"github.com/seodeck/depot/sqldb/sqlite3"
	"github.com/seodeck/depot/util"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

type prefixedResponseWriter struct {
	http.ResponseWriter
	prefix string // without trailing slash
}

// shadows the original WriteHeader func
func (w prefixedResponseWriter) WriteHeader(statusCode int) {
	// prepend prefix to Location header, so redirects work
	if w.prefix != "" {
		if location := w.Header().Get("Location"); len(location) > 0 && location[0] == '/' { // only absolute locations
			w.Header().Set("Location", w.prefix+location)
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// prefix should be without trailing slash
func handleStrip(prefix string, handler http.Handler) {
	http.Handle(
		prefix+"/", // http mux needs trailing slash
		http.StripPrefix(
			prefix,
			http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w = &prefixedResponseWriter{w, prefix}
					handler.ServeHTTP(w, r)
				},
			),
		),
	)
}

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	// values from config/depot.ini are flag defaults, command line flags win
	var conf, _ = util.Ini("depot.ini")
	var confDefault = func(key, fallback string) string {
		if val, ok := conf[key]; ok && val != "" {
			return val
		}
		return fallback
	}
	var dbDefault = confDefault("db", "sqlite3:depot.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared")

	var dbArg string // is in both FlagSets

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash."
	var base = flag.String("base", confDefault("base", ""), "strip off this `prefix` from every HTTP request and prepended it to every link")
	// MySQL: collation should be utf8mb4_unicode_ci
	flag.StringVar(&dbArg, "db", dbDefault, "sql database url, see github.com/xo/dburl")
	var hmacKey = flag.String("hmac", confDefault("hmac", ""), "use this secret HMAC `key` for serving resized images")
	var listenAddr = flag.String("listen", confDefault("listen", "127.0.0.1:8080"), "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", dbDefault, "sql database url, see github.com/xo/dburl") // copied from above
	var initInsert = initFlags.Bool("insert", false, "creates the given user")
	var initMakeAdmin = initFlags.Bool("make-admin", false, "gives the admin role to the given user")
	var username = initFlags.String("user", "", "specifies a user `name`")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	db := &core.CoreDB{}
	db.HMACSecret = *hmacKey

	err = db.Init(sessionStore, *base)
	if err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	db.AssetDB = sqldb.NewAssetDB(sqlDB)
	db.AuditDB = sqldb.NewAuditDB(sqlDB)
	db.ShareDB = sqldb.NewShareDB(sqlDB)
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.Events = core.LogDispatcher{}
	db.SqlDB = sqlDB

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		switch {
		case *initInsert:
			if *username != "" {
				insertUser(db, *username)
			}
		case *initMakeAdmin:
			if *username != "" {
				makeAdmin(db, *username)
			}
		}
		return
	}

	listen(db, *listenAddr, *base)
}

func insertUser(db *core.CoreDB, name string) {

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	user, err := db.InsertUser(name, core.ContentCreator)
	if err != nil {
		log.Printf("error creating user %s: %v", name, err)
		return
	}

	if err := db.SetPassword(user, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func makeAdmin(db *core.CoreDB, name string) {

	user, err := db.GetUserByName(name)
	if err != nil {
		log.Printf("error getting user %s: %v", name, err)
		return
	}

	if err := db.SetRole(user, core.Admin); err != nil {
		log.Printf("error giving admin role to user: %v", err)
		return
	}
}

func listen(db *core.CoreDB, addr string, base string) {

	// mux
	//
	// golang mux recovers from panics, so the program won't crash

	handleStrip(base+"/backend", backend.NewBackendRouter(db, base))
	handleStrip(base+"/static", http.FileServer(http.Dir("static")))
	handleStrip(base+"/upload", db.Uploads)

	http.Handle(base+"/", http.RedirectHandler(base+"/backend/", http.StatusSeeOther))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(http.DefaultServeMux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()
}
