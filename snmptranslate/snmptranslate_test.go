package snmptranslate

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
	"github.com/geekxflood/ftpmib/store"
)

func TestSNMPTranslate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SNMPTranslate Suite")
}

func newRegistry() *mib.Registry {
	reg, err := mib.NewDefault(store.New(store.WithLogger(logging.Discard())), mib.WithLogger(logging.Discard()))
	Expect(err).NotTo(HaveOccurred())
	return reg
}

var _ = Describe("Translator", func() {
	var translator *Translator

	BeforeEach(func() {
		var err error
		translator, err = New(newRegistry(), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(translator.Close()).To(Succeed())
	})

	Describe("Creation", func() {
		It("should reject a nil registry", func() {
			_, err := New(nil, DefaultConfig())
			Expect(err).To(HaveOccurred())
		})

		It("should reject a negative cache size", func() {
			_, err := New(newRegistry(), Config{MaxCacheSize: -1})
			Expect(err).To(HaveOccurred())
		})

		It("should index every table entry", func() {
			// 109 objects plus 109 instances at minimum
			Expect(translator.GetStats().TotalOIDs).To(BeNumerically(">=", 218))
		})
	})

	Describe("Translate", func() {
		DescribeTable("known OIDs",
			func(oid, expectedName string) {
				name, err := translator.Translate(oid)
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal(expectedName))
			},
			Entry("instance", ".1.3.6.1.4.1.17852.2.2.2.7.0", "daemon.connectionTotal.0"),
			Entry("object", ".1.3.6.1.4.1.17852.2.2.2.7", "daemon.connectionTotal"),
			Entry("without leading dot", "1.3.6.1.4.1.17852.2.2.2.4.0", "daemon.uptime.0"),
			Entry("nested object", ".1.3.6.1.4.1.17852.2.2.3.1.1.0", "ftp.sessions.sessionCount.0"),
			Entry("group", ".1.3.6.1.4.1.17852.2.2.3", "ftp"),
			Entry("subgroup", ".1.3.6.1.4.1.17852.2.2.3.1", "ftp.sessions"),
			Entry("notification", ".1.3.6.1.4.1.17852.2.2.3.1000.1.0", "ftp.ftpNotifications.loginBadPassword.0"),
			Entry("module root", ".1.3.6.1.4.1.17852.2.2", "proftpd.modules.snmp"),
			Entry("sysUpTime", ".1.3.6.1.2.1.1.3.0", "sysUpTime.0"),
			Entry("snmpTrapOID", ".1.3.6.1.6.3.1.1.4.1.0", "snmpTrapOID.0"),
			Entry("coldStart", ".1.3.6.1.6.3.1.1.5.1", "coldStart"),
			Entry("linkDown", ".1.3.6.1.6.3.1.1.5.3", "linkDown"),
			Entry("disabled TLS object", ".1.3.6.1.4.1.17852.2.2.5.1.1.0", "ftps.tlsSessions.sessionCount.0"),
		)

		DescribeTable("partially known OIDs",
			func(oid, expectedName string) {
				name, err := translator.Translate(oid)
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal(expectedName))
			},
			Entry("unregistered daemon object", ".1.3.6.1.4.1.17852.2.2.2.99.0", "daemon.99.0"),
			Entry("other enterprise", ".1.3.6.1.4.1.9.1", "enterprises.9.1"),
			Entry("past an instance", ".1.3.6.1.4.1.17852.2.2.2.7.0.5", "daemon.connectionTotal.0.5"),
		)

		It("should return the normalized OID for unknown OIDs", func() {
			name, err := translator.Translate("1.2.3.4.5")
			Expect(err).To(MatchError(ErrUnknownOID))
			Expect(name).To(Equal(".1.2.3.4.5"))
		})

		It("should reject malformed OIDs", func() {
			_, err := translator.Translate(".1.3.x")
			Expect(errors.Is(err, mib.ErrInvalidOID)).To(BeTrue())
		})

		It("should qualify names with their module when configured", func() {
			qualified, err := New(newRegistry(), Config{MaxCacheSize: 8, Qualified: true})
			Expect(err).NotTo(HaveOccurred())
			defer qualified.Close()

			name, err := qualified.Translate(".1.3.6.1.4.1.17852.2.2.2.7.0")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("PROFTPD-MIB::daemon.connectionTotal.0"))

			name, err = qualified.Translate(".1.3.6.1.2.1.1.3.0")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("SNMPv2-MIB::sysUpTime.0"))
		})
	})

	Describe("Resolve", func() {
		DescribeTable("names",
			func(name, expectedOID string) {
				oid, err := translator.Resolve(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(oid.String()).To(Equal(expectedOID))
			},
			Entry("instance", "daemon.connectionTotal.0", "1.3.6.1.4.1.17852.2.2.2.7.0"),
			Entry("object", "daemon.connectionTotal", "1.3.6.1.4.1.17852.2.2.2.7"),
			Entry("qualified", "PROFTPD-MIB::scp.scpSessions.sessionCount.0", "1.3.6.1.4.1.17852.2.2.8.1.1.0"),
			Entry("group", "sftp", "1.3.6.1.4.1.17852.2.2.7"),
			Entry("numeric suffix", "daemon.99.0", "1.3.6.1.4.1.17852.2.2.2.99.0"),
			Entry("numeric OID", ".1.3.6.1.2.1.1.3.0", "1.3.6.1.2.1.1.3.0"),
			Entry("well-known", "SNMPv2-MIB::coldStart", "1.3.6.1.6.3.1.1.5.1"),
		)

		It("should fail for unknown names", func() {
			_, err := translator.Resolve("daemon.bogusObject.0")
			Expect(err).To(MatchError(ErrUnknownName))

			_, err = translator.Resolve("")
			Expect(err).To(MatchError(ErrUnknownName))
		})

		It("should round-trip every registered instance", func() {
			for _, e := range newRegistry().All() {
				name, err := translator.Translate(e.OID.String())
				Expect(err).NotTo(HaveOccurred())
				oid, err := translator.Resolve(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(oid.Equal(e.OID)).To(BeTrue(), "round trip of %s", e.InstanceName)
			}
		})
	})

	Describe("Batch Translation", func() {
		It("should translate multiple OIDs", func() {
			oids := []string{
				".1.3.6.1.6.3.1.1.5.1",
				".1.3.6.1.4.1.17852.2.2.4.1.0",
				".1.3.6.1.4.1.17852.2.2.1.1.0",
			}

			results, err := translator.TranslateBatch(oids)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[".1.3.6.1.6.3.1.1.5.1"]).To(Equal("coldStart"))
			Expect(results[".1.3.6.1.4.1.17852.2.2.4.1.0"]).To(Equal("snmp.packetsReceivedTotal.0"))
			Expect(results[".1.3.6.1.4.1.17852.2.2.1.1.0"]).To(Equal("connection.serverName.0"))
		})

		It("should handle mixed valid and invalid OIDs", func() {
			oids := []string{
				".1.3.6.1.6.3.1.1.5.1",
				".1.2.3.4.5.6.7.8.9",
			}

			results, err := translator.TranslateBatch(oids)
			Expect(err).To(MatchError(ErrUnknownOID))
			Expect(results).To(HaveLen(2))
			Expect(results[".1.3.6.1.6.3.1.1.5.1"]).To(Equal("coldStart"))
			Expect(results[".1.2.3.4.5.6.7.8.9"]).To(Equal(".1.2.3.4.5.6.7.8.9"))
		})
	})

	Describe("Statistics", func() {
		It("should track translation statistics", func() {
			_, _ = translator.Translate(".1.3.6.1.6.3.1.1.5.1")
			_, _ = translator.Translate(".1.3.6.1.6.3.1.1.5.2")
			_, _ = translator.Translate(".1.3.6.1.6.3.1.1.5.1")

			stats := translator.GetStats()
			Expect(stats.TranslationCount).To(Equal(int64(3)))
			Expect(stats.CacheHits).To(Equal(int64(1)))
			Expect(stats.CacheMisses).To(Equal(int64(2)))
			Expect(translator.CacheStats().Size).To(Equal(2))
		})

		It("should not cache when the cache is disabled", func() {
			uncached, err := New(newRegistry(), Config{})
			Expect(err).NotTo(HaveOccurred())
			defer uncached.Close()

			_, _ = uncached.Translate(".1.3.6.1.6.3.1.1.5.1")
			_, _ = uncached.Translate(".1.3.6.1.6.3.1.1.5.1")
			Expect(uncached.GetStats().CacheHits).To(BeZero())
		})
	})

	Describe("Resource Management", func() {
		It("should fail after close", func() {
			_, _ = translator.Translate(".1.3.6.1.6.3.1.1.5.1")
			Expect(translator.Close()).To(Succeed())

			_, err := translator.Translate(".1.3.6.1.6.3.1.1.5.1")
			Expect(err).To(MatchError(ErrClosed))

			_, err = translator.Resolve("coldStart")
			Expect(err).To(MatchError(ErrClosed))

			_, err = translator.TranslateBatch([]string{".1.3.6.1.6.3.1.1.5.1"})
			Expect(err).To(MatchError(ErrClosed))
		})
	})
})

var _ = Describe("OIDTrie", func() {
	var trie *OIDTrie

	BeforeEach(func() {
		trie = NewOIDTrie()
	})

	It("should insert and lookup OIDs", func() {
		trie.Insert(mib.MustParseOID("1.3.6.1.6.3.1.1.5.1"), "coldStart", ModuleSNMPv2)

		name, ok := trie.Lookup(mib.MustParseOID("1.3.6.1.6.3.1.1.5.1"))
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("coldStart"))

		_, ok = trie.Lookup(mib.MustParseOID("1.3.6.1.6.3.1.1.5"))
		Expect(ok).To(BeFalse())
	})

	It("should keep the first name inserted for an OID", func() {
		trie.Insert(mib.MustParseOID("1.3.6"), "first", ModuleSNMPv2)
		trie.Insert(mib.MustParseOID("1.3.6"), "second", ModuleSNMPv2)

		name, _ := trie.Lookup(mib.MustParseOID("1.3.6"))
		Expect(name).To(Equal("first"))
		Expect(trie.Size()).To(Equal(1))
	})

	It("should find the longest named prefix", func() {
		trie.Insert(mib.MustParseOID("1.3"), "org", ModuleSNMPv2)
		trie.Insert(mib.MustParseOID("1.3.6.1"), "internet", ModuleSNMPv2)

		node, depth := trie.LongestPrefix(mib.MustParseOID("1.3.6.1.4.1"))
		Expect(node).NotTo(BeNil())
		Expect(node.name).To(Equal("internet"))
		Expect(depth).To(Equal(4))

		node, depth = trie.LongestPrefix(mib.MustParseOID("1.3.7"))
		Expect(node.name).To(Equal("org"))
		Expect(depth).To(Equal(2))

		node, _ = trie.LongestPrefix(mib.MustParseOID("2.1"))
		Expect(node).To(BeNil())
	})
})

var _ = Describe("Cache", func() {
	var cache *Cache

	BeforeEach(func() {
		cache = NewCache(3)
	})

	It("should store and retrieve values", func() {
		cache.Set("key1", "value1")

		value, found := cache.Get("key1")
		Expect(found).To(BeTrue())
		Expect(value).To(Equal("value1"))

		_, found = cache.Get("nonexistent")
		Expect(found).To(BeFalse())
	})

	It("should evict least recently used items", func() {
		cache.Set("key1", "value1")
		cache.Set("key2", "value2")
		cache.Set("key3", "value3")

		cache.Get("key1")
		cache.Set("key4", "value4")

		_, found := cache.Get("key2")
		Expect(found).To(BeFalse())

		_, found = cache.Get("key1")
		Expect(found).To(BeTrue())
		Expect(cache.GetStats().Evictions).To(Equal(int64(1)))
	})

	It("should track cache statistics", func() {
		cache.Set("key1", "value1")
		cache.Get("key1")
		cache.Get("key2")

		stats := cache.GetStats()
		Expect(stats.Hits).To(Equal(int64(1)))
		Expect(stats.Misses).To(Equal(int64(1)))
		Expect(stats.Size).To(Equal(1))
		Expect(stats.Capacity).To(Equal(3))
		Expect(stats.HitRatio).To(BeNumerically("~", 0.5))
	})

	It("should drop entries on clear", func() {
		cache.Set("key1", "value1")
		cache.Clear()

		_, found := cache.Get("key1")
		Expect(found).To(BeFalse())
		Expect(cache.GetStats().Size).To(BeZero())
	})
})

func BenchmarkTranslate(b *testing.B) {
	reg, err := mib.NewDefault(store.New(store.WithLogger(logging.Discard())), mib.WithLogger(logging.Discard()))
	if err != nil {
		b.Fatal(err)
	}
	translator, err := New(reg, DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	defer translator.Close()

	testOIDs := []string{
		".1.3.6.1.6.3.1.1.5.1",
		".1.3.6.1.4.1.17852.2.2.2.7.0",
		".1.3.6.1.4.1.17852.2.2.3.1.1.0",
		".1.3.6.1.4.1.17852.2.2.7.1.1.0",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; b.Loop(); i++ {
		_, _ = translator.Translate(testOIDs[i%len(testOIDs)])
	}
}
