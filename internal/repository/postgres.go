package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"canteen/internal/config"
	"canteen/internal/domain"
)

// PostgresStore хранилище поверх пула pgx. Вся бизнес-логика (цены,
// проверки наличия, агрегация продаж) живёт в базе; здесь только
// параметризованные запросы и границы транзакций.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

var (
	_ UserRepository   = (*PostgresStore)(nil)
	_ MenuRepository   = (*PostgresStore)(nil)
	_ OrderRepository  = (*PostgresStore)(nil)
	_ ReportRepository = (*PostgresStore)(nil)
)

// NewPostgresStore строит пул по конфигурации и проверяет соединение
func NewPostgresStore(ctx context.Context, cfg config.Database, log zerolog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnRecycle > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnRecycle
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Debug().Int32("max_conns", poolCfg.MaxConns).
		Dur("conn_lifetime", poolCfg.MaxConnLifetime).
		Msg("database pool ready")

	return &PostgresStore{pool: pool, log: log}, nil
}

// Close останавливает пул; вызывается один раз при завершении процесса
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping проверяет доступность базы
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// withConn выдаёт соединение на время одного запроса и гарантированно
// возвращает его в пул на любом пути выхода
func (s *PostgresStore) withConn(ctx context.Context, fn func(conn *pgxpool.Conn) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Release()
	return fn(conn)
}

// withTx оборачивает fn в транзакцию: rollback отложен безусловно,
// commit выполняется только при успехе fn
func (s *PostgresStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return s.withConn(ctx, func(conn *pgxpool.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}

// Authenticate ищет пользователя по email и паролю.
// WARNING: пароль сравнивается открытым текстом, как в исходной системе.
func (s *PostgresStore) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var u domain.User
	err := s.withConn(ctx, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx,
			`SELECT user_id, name, role FROM canteen.users WHERE email = $1 AND password_hash = $2`,
			email, password)
		return row.Scan(&u.ID, &u.Name, &u.Role)
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return &u, nil
}

// CreateUser вставляет нового пользователя; нарушение уникальности email
// превращается в ErrDuplicate
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO canteen.users (name, email, password_hash, role)
			 VALUES ($1, $2, $3, $4)
			 RETURNING user_id`,
			u.Name, u.Email, u.Password, u.Role)
		return row.Scan(&u.ID)
	})
	if err != nil {
		return s.translate(err)
	}
	return nil
}

// ListUsers возвращает краткий список пользователей
func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := s.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `SELECT user_id, name, role FROM canteen.users`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var u domain.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return users, nil
}

// ListMeals возвращает меню; цену под роль считает функция в базе
func (s *PostgresStore) ListMeals(ctx context.Context, role domain.Role) ([]domain.Meal, error) {
	meals := make([]domain.Meal, 0)
	err := s.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT meal_id, name, description, category, type, is_available, image_url,
			        canteen.fn_get_dynamic_price(price, $1) AS price
			 FROM canteen.meals`,
			string(role))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var m domain.Meal
			if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Category,
				&m.Type, &m.IsAvailable, &m.ImageURL, &m.Price); err != nil {
				return err
			}
			meals = append(meals, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return meals, nil
}

// Place вызывает sp_place_order; процедура атомарно создаёт заказ и его
// позиции, проверяет наличие и считает сумму. Здесь никакой компенсации:
// при ошибке транзакция откатывается целиком.
func (s *PostgresStore) Place(ctx context.Context, req domain.OrderRequest) error {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`CALL canteen.sp_place_order($1, $2, $3, $4)`,
			req.MealID, req.UserID, req.Quantity, req.PickupTime)
		return err
	})
	if err != nil {
		return s.translate(err)
	}
	return nil
}

// ListByUser плоская выборка: заказ с двумя позициями даёт две строки
func (s *PostgresStore) ListByUser(ctx context.Context, userID int64) ([]domain.OrderLine, error) {
	lines := make([]domain.OrderLine, 0)
	err := s.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT o.order_id, o.order_date, o.pickup_time::text, o.total_amount,
			        m.name AS meal_name, oi.quantity
			 FROM canteen.orders o
			 JOIN canteen.order_items oi ON o.order_id = oi.order_id
			 JOIN canteen.meals m ON oi.meal_id = m.meal_id
			 WHERE o.user_id = $1
			 ORDER BY o.order_date DESC`,
			userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var l domain.OrderLine
			if err := rows.Scan(&l.OrderID, &l.OrderDate, &l.PickupTime,
				&l.TotalAmount, &l.MealName, &l.Quantity); err != nil {
				return err
			}
			lines = append(lines, l)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return lines, nil
}

// WeeklySales форма результата принадлежит отчётной функции в базе
func (s *PostgresStore) WeeklySales(ctx context.Context) ([]domain.ReportRow, error) {
	return s.reportQuery(ctx, `SELECT * FROM canteen.sp_get_weekly_sales()`)
}

// MonthlySales аналогично WeeklySales
func (s *PostgresStore) MonthlySales(ctx context.Context) ([]domain.ReportRow, error) {
	return s.reportQuery(ctx, `SELECT * FROM canteen.sp_get_monthly_sales()`)
}

func (s *PostgresStore) reportQuery(ctx context.Context, query string) ([]domain.ReportRow, error) {
	var report []domain.ReportRow
	err := s.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		report, err = shapeRows(rows)
		return err
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return report, nil
}

// Seed наполняет базу демонстрационными пользователями и блюдами
func (s *PostgresStore) Seed(ctx context.Context) error {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO canteen.users (name, email, password_hash, role) VALUES
			 ('Alice Student', 'alice@uni.edu', 'alice123', 'Student'),
			 ('Bob Employee', 'bob@uni.edu', 'bob123', 'Employee')`)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO canteen.meals (name, category, type, description, price, is_available) VALUES
			 ('Vegan Buddha Bowl', 'Lunch', 'Vegan', 'Roasted veggies over rice', 8.50, TRUE),
			 ('Cheeseburger & Fries', 'Lunch', 'Normal', 'Classic burger with fries', 9.00, TRUE),
			 ('Morning Pancakes', 'Breakfast', 'Vegetarian', 'Stack of three with syrup', 5.00, TRUE),
			 ('Grilled Salmon', 'Dinner', 'Normal', 'Salmon fillet with greens', 12.00, TRUE)`)
		return err
	})
	if err != nil {
		return s.translate(err)
	}
	return nil
}

// translate сводит ошибки драйвера к ошибкам хранилища; сырой текст
// базы в ответы не попадает, кроме сообщений RAISE из процедур — они
// адресованы пользователю
func (s *PostgresStore) translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return ErrDuplicate
		case pgErr.Code == "P0001":
			return &RejectionError{Reason: pgErr.Message}
		case strings.HasPrefix(pgErr.Code, "23"):
			return &RejectionError{Reason: "request violates a database constraint"}
		}
		s.log.Error().Str("code", pgErr.Code).Str("message", pgErr.Message).Msg("database error")
		return fmt.Errorf("database error (%s)", pgErr.Code)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
