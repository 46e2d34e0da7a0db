package expense

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			filename  string
			data      []byte
			savedPath string
			err       error
		)

		BeforeEach(func() {
			filename = "abc123_receipt.jpg"
			data = []byte("image bytes")
		})

		JustBeforeEach(func() {
			savedPath, err = storage.Save(filename, data)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the filename as the stored path", func() {
				Expect(savedPath).To(Equal(filename))
			})

			It("should write the image to disk", func() {
				Expect(filepath.Join(tmpDir, filename)).To(BeAnExistingFile())
			})
		})
	})

	Describe("Get", func() {
		When("the image exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("abc123_receipt.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the image data", func() {
				data, err := storage.Get("abc123_receipt.jpg")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("image bytes"))
			})
		})

		When("the image does not exist", func() {
			It("should return an error", func() {
				_, err := storage.Get("missing.jpg")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Delete", func() {
		When("the image exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("abc123_receipt.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the image", func() {
				Expect(storage.Delete("abc123_receipt.jpg")).To(Succeed())
				Expect(filepath.Join(tmpDir, "abc123_receipt.jpg")).NotTo(BeAnExistingFile())
			})
		})

		When("the image does not exist", func() {
			It("should return an error", func() {
				Expect(storage.Delete("missing.jpg")).NotTo(Succeed())
			})
		})
	})
})
