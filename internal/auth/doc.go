// Package auth provides account credentials, cookie sessions and web security
// middleware for the application.
//
// # Configuration
//
//	SECRET_KEY=<random string>  # Session/CSRF secret, generated per process if empty
//	SESSION_LIFETIME=24h        # Session duration
//	BCRYPT_COST=12              # bcrypt cost factor
//	SECURE_COOKIES=true         # HTTPS-only cookies
//	CSRF_ENABLED=true           # Form token checks
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	authService := auth.NewService(userRepo, cfg.Auth)
//	sqlDB, _ := db.SQL()
//	sessions, err := auth.NewSessionManager(sqlDB, db.Dialect(), cfg.Auth)
//	authMiddleware := auth.NewMiddleware(sessions)
//	router.Use(sessions.SessionLoadSave(logger), authMiddleware.Handler())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)  // 0 when nobody is logged in
package auth
