// Package logging builds slog loggers and carries them through request contexts.
//
//	logger := logging.NewLogger() // LOG_LEVEL, LOG_FORMAT
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("reducing text")
//	}
package logging
