package expense

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newTestExpense := func(id string, date time.Time) *Expense {
		return &Expense{
			ID:        id,
			Merchant:  "Shoprite",
			Date:      date,
			Total:     decimal.RequireFromString("25.99"),
			Currency:  "NGN",
			Category:  CategoryGroceries,
			Items:     []Item{{Name: "Bread", Quantity: "2", Price: decimal.RequireFromString("12.99")}},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	Describe("SaveExpense", func() {
		var (
			exp *Expense
			err error
		)

		BeforeEach(func() {
			exp = newTestExpense("test-id", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		})

		JustBeforeEach(func() {
			err = db.SaveExpense(exp)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the expense to the database", func() {
				saved, getErr := db.GetExpense("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
				Expect(saved.Merchant).To(Equal("Shoprite"))
			})

			It("should round-trip the decimal total exactly", func() {
				saved, getErr := db.GetExpense("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Total.Equal(decimal.RequireFromString("25.99"))).To(BeTrue())
			})

			It("should round-trip the line items", func() {
				saved, getErr := db.GetExpense("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Items).To(HaveLen(1))
				Expect(saved.Items[0].Name).To(Equal("Bread"))
				Expect(saved.Items[0].Quantity).To(Equal("2"))
			})
		})
	})

	Describe("GetExpense", func() {
		When("the expense does not exist", func() {
			It("should return an error", func() {
				_, err := db.GetExpense("missing")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ListExpenses", func() {
		When("no expenses exist", func() {
			It("should return an empty slice", func() {
				expenses, err := db.ListExpenses()
				Expect(err).NotTo(HaveOccurred())
				Expect(expenses).To(BeEmpty())
			})
		})

		When("expenses exist", func() {
			BeforeEach(func() {
				Expect(db.SaveExpense(newTestExpense("id1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
				Expect(db.SaveExpense(newTestExpense("id2", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			})

			It("should return all of them", func() {
				expenses, err := db.ListExpenses()
				Expect(err).NotTo(HaveOccurred())
				Expect(expenses).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteExpense", func() {
		BeforeEach(func() {
			Expect(db.SaveExpense(newTestExpense("id1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
		})

		It("should remove the expense", func() {
			Expect(db.DeleteExpense("id1")).To(Succeed())
			_, err := db.GetExpense("id1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("FindInRange", func() {
		var (
			start time.Time
			end   time.Time
		)

		BeforeEach(func() {
			start = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
			end = time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

			Expect(db.SaveExpense(newTestExpense("april", time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			Expect(db.SaveExpense(newTestExpense("mid", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			Expect(db.SaveExpense(newTestExpense("first", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			Expect(db.SaveExpense(newTestExpense("last", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			Expect(db.SaveExpense(newTestExpense("june", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
		})

		It("should return only records within the range, bounds inclusive", func() {
			expenses, err := db.FindInRange(context.Background(), start, end)
			Expect(err).NotTo(HaveOccurred())
			ids := make([]string, 0, len(expenses))
			for _, e := range expenses {
				ids = append(ids, e.ID)
			}
			Expect(ids).To(Equal([]string{"first", "mid", "last"}))
		})

		It("should order records ascending by date", func() {
			expenses, err := db.FindInRange(context.Background(), start, end)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(expenses); i++ {
				Expect(expenses[i].Date.Before(expenses[i-1].Date)).To(BeFalse())
			}
		})

		It("should return an empty slice for an empty range", func() {
			expenses, err := db.FindInRange(context.Background(),
				time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).To(BeEmpty())
		})

		It("should respect a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := db.FindInRange(ctx, start, end)
			Expect(err).To(HaveOccurred())
		})
	})
})
