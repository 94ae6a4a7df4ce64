// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях движка.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки экономики (монеты, банк, переводы)
var (
	// ErrInsufficientFunds — недостаточно монет на счёте
	ErrInsufficientFunds = errors.New("недостаточно монет на счёте")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrSelfTransfer — попытка перевести монеты самому себе
	ErrSelfTransfer = errors.New("нельзя переводить монеты самому себе")
	// ErrNoAccelerators — нет ускорителей для работы
	ErrNoAccelerators = errors.New("закончились ускорители")
)

// Ошибки игровых сессий
var (
	// ErrNotFound — сессия, промокод или инвойс не найдены
	ErrNotFound = errors.New("не найдено")
	// ErrForbidden — действие над чужой сессией
	ErrForbidden = errors.New("это не ваша игра")
	// ErrAlreadyFinished — сессия уже завершена
	ErrAlreadyFinished = errors.New("игра уже завершена")
	// ErrCellAlreadyOpen — клетка уже открыта
	ErrCellAlreadyOpen = errors.New("эта клетка уже открыта")
)

// Ошибки промокодов
var (
	// ErrPromoExhausted — промокод исчерпал все активации
	ErrPromoExhausted = errors.New("промокод уже использовал максимальное количество раз")
	// ErrPromoAlreadyUsed — пользователь уже активировал этот промокод
	ErrPromoAlreadyUsed = errors.New("вы уже активировали этот промокод")
	// ErrPromoExists — промокод с таким кодом уже создан
	ErrPromoExists = errors.New("такой промокод уже существует")
)

// Ошибки доната
var (
	// ErrRefundIneligible — транзакция уже возвращена или привилегия не совпадает
	ErrRefundIneligible = errors.New("возврат по этой транзакции невозможен")
)

// Ошибки имущества (рудник, бизнес)
var (
	// ErrNoBusiness — у пользователя нет бизнеса
	ErrNoBusiness = errors.New("у вас нет бизнеса")
	// ErrBusinessExists — бизнес уже куплен
	ErrBusinessExists = errors.New("у вас уже есть бизнес")
	// ErrMineMaxLevel — рудник максимального уровня
	ErrMineMaxLevel = errors.New("рудник максимального уровня")
	// ErrNothingToCollect — нечего собирать
	ErrNothingToCollect = errors.New("пока нечего собирать")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrDailyTooEarly — ежедневный бонус ещё не доступен
	ErrDailyTooEarly = errors.New("ежедневный бонус ещё не доступен")
)
